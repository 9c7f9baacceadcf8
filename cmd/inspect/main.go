// Command inspect dumps the badger store as a table, one row per record.
// Useful when debugging key layout or cascade deletes without going through
// the API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Config error: ", err)
	}

	dbPath := flag.String("db", cfg.BadgerFilepath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (empty scans everything)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithLoggingLevel(badger.ERROR).
		WithReadOnly(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Bold.Printf("Store at %s (prefix %q)\n\n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, kindOfKey(key), summarize(v)})
				rows++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
	color.Green.Printf("\n%d rows\n", rows)
}

// kindOfKey classifies a key by its leading segment.
func kindOfKey(key string) string {
	switch {
	case strings.HasPrefix(key, "user:email:"):
		return "USER-EMAIL-IDX"
	case strings.HasPrefix(key, "user:conv:"):
		return "USER-CONV-IDX"
	case strings.HasPrefix(key, "user:"):
		return "USER"
	case strings.HasPrefix(key, "conv:member:"):
		return "MEMBERSHIP"
	case strings.HasPrefix(key, "conv:"):
		return "CONVERSATION"
	case strings.HasPrefix(key, "msg:id:"):
		return "MSG-ID-IDX"
	case strings.HasPrefix(key, "msg:"):
		return "MESSAGE"
	case strings.HasPrefix(key, "prop:"):
		return "PROPERTY"
	case strings.HasPrefix(key, "booking:"):
		return "BOOKING"
	case strings.HasPrefix(key, "payment:"):
		return "PAYMENT"
	case strings.HasPrefix(key, "review:"):
		return "REVIEW"
	case strings.HasPrefix(key, "seq:"):
		return "SEQUENCE"
	default:
		return "?"
	}
}

// summarize renders a value on one line: compacted JSON for records, raw
// bytes for index entries.
func summarize(v []byte) string {
	if len(v) == 0 {
		return ""
	}
	var decoded map[string]any
	if err := json.Unmarshal(v, &decoded); err != nil {
		return string(v)
	}
	delete(decoded, "password_hash")
	compact, err := json.Marshal(decoded)
	if err != nil {
		return string(v)
	}
	const maxLen = 120
	s := string(compact)
	if len(s) > maxLen {
		s = fmt.Sprintf("%s...", s[:maxLen])
	}
	return s
}
