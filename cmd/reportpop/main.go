package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kianwoon/report-population-tool/internal"
	"github.com/kianwoon/report-population-tool/internal/catalog"
	"github.com/kianwoon/report-population-tool/internal/config"
	"github.com/kianwoon/report-population-tool/internal/connectors"
	gmailconnector "github.com/kianwoon/report-population-tool/internal/connectors/gmail"
	imapconnector "github.com/kianwoon/report-population-tool/internal/connectors/imap"
	"github.com/kianwoon/report-population-tool/internal/listener"
	"github.com/kianwoon/report-population-tool/internal/parser"
	"github.com/kianwoon/report-population-tool/internal/pipeline"
	"github.com/kianwoon/report-population-tool/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	store := catalog.NewStore(cfg.ConfigDir)
	cmd := os.Args[1]

	// Config commands don't need the database.
	switch cmd {
	case "config:companies":
		runConfigCompanies(store, os.Args[2:])
		return
	case "config:keywords":
		runConfigKeywords(store, os.Args[2:])
		return
	case "config:codes":
		runConfigCodes(store, os.Args[2:])
		return
	case "run":
		runOneShot(store, os.Args[2:])
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	switch cmd {
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.ListenerProvider, "imap|gmail")
		label := fs.String("label", cfg.ListenerLabel, "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn, time.Duration(cfg.MailFetchMinIntervalSec)*time.Second)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", cfg.ListenerProvider, "imap|gmail")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg, store)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d incident=%v\n", res.EmailID, res.Incident)
			return
		}
		processed, incidents, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d incidents=%d\n", processed, incidents)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", cfg.ReportPath, "output xlsx path")
		limit := fs.Int("limit", 200, "max emails to export")
		_ = fs.Parse(os.Args[2:])
		count, err := exportProcessed(db, store, *out, *limit)
		must(err)
		fmt.Printf("exported %d incidents to %s\n", count, *out)
	case "mail:listen":
		svc := listener.NewService(db, cfg, store)
		must(svc.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

func exportProcessed(db *storage.DB, store *catalog.Store, out string, limit int) (int, error) {
	mappings, err := store.ReportMappings()
	if err != nil {
		return 0, err
	}
	mapping, ok := mappings["incidents"]
	if !ok {
		return 0, fmt.Errorf("no incidents report mapping configured")
	}

	emails, err := db.ListEmailsByStatus("processed", limit)
	if err != nil {
		return 0, err
	}

	rows := make([]internal.ReportRow, 0, len(emails))
	ids := make([]int, 0, len(emails))
	for _, email := range emails {
		row, err := db.GetReportRow(email.ID)
		if err != nil {
			return 0, err
		}
		if row == nil {
			continue
		}
		rows = append(rows, *row)
		ids = append(ids, email.ID)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := pipeline.AppendReportRows(mapping, rows, out); err != nil {
		return 0, err
	}
	for _, id := range ids {
		_ = db.UpdateEmailStatus(id, "exported")
	}
	return len(rows), nil
}

// runOneShot extracts structured data from a text or .eml file and prints
// the result as JSON.
func runOneShot(store *catalog.Store, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("input", "", "path to a text or .eml file")
	_ = fs.Parse(args)
	if strings.TrimSpace(*input) == "" {
		must(fmt.Errorf("--input is required"))
	}

	raw, err := os.ReadFile(*input)
	must(err)

	text := string(raw)
	if strings.HasSuffix(strings.ToLower(*input), ".eml") {
		parts, _, err := pipeline.ExtractBody(raw)
		must(err)
		text = pipeline.CombinedText(parts)
	}

	engineCfg, err := store.EngineConfig()
	must(err)

	result := parser.ExtractStructured(text, engineCfg)
	blob, err := json.MarshalIndent(result, "", "  ")
	must(err)
	fmt.Println(string(blob))
}

func runConfigCompanies(store *catalog.Store, args []string) {
	fs := flag.NewFlagSet("config:companies", flag.ExitOnError)
	add := fs.String("add", "", "company name to add")
	remove := fs.String("remove", "", "company name to remove")
	_ = fs.Parse(args)

	switch {
	case *add != "":
		must(store.AddCompany(*add))
		fmt.Printf("added company: %s\n", *add)
	case *remove != "":
		must(store.RemoveCompany(*remove))
		fmt.Printf("removed company: %s\n", *remove)
	default:
		cfg, err := store.Companies()
		must(err)
		for _, name := range cfg.Companies {
			fmt.Println(name)
		}
	}
}

func runConfigKeywords(store *catalog.Store, args []string) {
	fs := flag.NewFlagSet("config:keywords", flag.ExitOnError)
	category := fs.String("category", "", "keyword category")
	add := fs.String("add", "", "keyword to add (requires --category)")
	remove := fs.String("remove", "", "keyword to remove (requires --category)")
	addCategory := fs.String("add-category", "", "category to create")
	removeCategory := fs.String("remove-category", "", "category to delete")
	_ = fs.Parse(args)

	switch {
	case *addCategory != "":
		must(store.AddCategory(*addCategory))
		fmt.Printf("added category: %s\n", *addCategory)
	case *removeCategory != "":
		must(store.RemoveCategory(*removeCategory))
		fmt.Printf("removed category: %s\n", *removeCategory)
	case *add != "":
		must(store.AddKeyword(*category, *add))
		fmt.Printf("added keyword to %s: %s\n", *category, *add)
	case *remove != "":
		must(store.RemoveKeyword(*category, *remove))
		fmt.Printf("removed keyword from %s: %s\n", *category, *remove)
	default:
		cfg, err := store.Keywords()
		must(err)
		categories := make([]string, 0, len(cfg.Categories))
		for name := range cfg.Categories {
			categories = append(categories, name)
		}
		sort.Strings(categories)
		for _, name := range categories {
			fmt.Printf("%s: %s\n", name, strings.Join(cfg.Categories[name], ", "))
		}
	}
}

func runConfigCodes(store *catalog.Store, args []string) {
	fs := flag.NewFlagSet("config:codes", flag.ExitOnError)
	add := fs.String("add", "", "incident code to add")
	desc := fs.String("desc", "", "description for --add/--update")
	update := fs.String("update", "", "incident code to update")
	remove := fs.String("remove", "", "incident code to remove")
	_ = fs.Parse(args)

	switch {
	case *add != "":
		must(store.AddIncidentCode(*add, *desc))
		fmt.Printf("added incident code: %s\n", strings.ToUpper(*add))
	case *update != "":
		must(store.UpdateIncidentCode(*update, *desc))
		fmt.Printf("updated incident code: %s\n", strings.ToUpper(*update))
	case *remove != "":
		must(store.RemoveIncidentCode(*remove))
		fmt.Printf("removed incident code: %s\n", strings.ToUpper(*remove))
	default:
		cfg, err := store.IncidentCodes()
		must(err)
		codes := make([]string, 0, len(cfg.Codes))
		for code := range cfg.Codes {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Printf("%s: %s\n", code, cfg.Codes[code])
		}
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}

func usage() {
	fmt.Println(`usage: reportpop <command> [flags]

commands:
  mail:fetch        fetch new mail and store raw messages
  mail:process      run extraction over fetched emails
  export:xlsx       append processed incidents to the XLSX report
  mail:listen       run the polling loop (fetch, process, export)
  run               one-shot extraction of a text/.eml file, JSON output
  config:companies  list/add/remove known company names
  config:keywords   list/add/remove keyword categories and keywords
  config:codes      list/add/update/remove incident codes`)
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
