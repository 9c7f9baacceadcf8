package main

import "time"

type Config struct {
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath     string        `env:"BLUGE_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	UnreadLookback    time.Duration `env:"UNREAD_LOOKBACK,default=720h"`
	LimitMessages     *int          `env:"LIMIT_MESSAGES"`
	CensoredWordsFile string        `env:"CENSORED_WORDS_FILE"`
	CensoredChar      string        `env:"CENSORED_CHARACTER,default=*"`
	StatsInterval     time.Duration `env:"STATS_INTERVAL,default=60s"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
}
