// Command cli is an offline admin tool for the bot's data files. It operates
// directly on the casefile database and the user datastore, so run it while
// the bot is stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"server-keeper/internal/casefile"
	"server-keeper/internal/config"
	"server-keeper/internal/storage"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	if err := run(context.Background(), cfg, args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	switch args[0] {
	case "cases":
		return runCases(ctx, cfg, args[1:])
	case "blacklist":
		return runBlacklist(ctx, cfg, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runCases(ctx context.Context, cfg *config.Config, args []string) error {
	cases, err := casefile.Open(cfg.CasefilePath)
	if err != nil {
		return err
	}
	defer cases.Close()

	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		all, err := cases.ListAll(ctx)
		if err != nil {
			return err
		}
		for _, cf := range all {
			fmt.Printf("#%d\t%s\t%s\t(%d items)\n", cf.ID, cf.Name, cf.Resolution(), len(cf.Items))
		}
		return nil
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: cli cases show <id>")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid case id %q: %w", args[1], err)
		}
		cf, err := cases.Read(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s (%s)\n", cf.ID, cf.Name, cf.Resolution())
		for i, item := range cf.Items {
			fmt.Printf("  %d. %s\n", i, item)
		}
		return nil
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: cli cases delete <id>")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid case id %q: %w", args[1], err)
		}
		return cases.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown cases subcommand %q", args[0])
	}
}

func runBlacklist(ctx context.Context, cfg *config.Config, args []string) error {
	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) < 2 {
		return fmt.Errorf("usage: cli blacklist <add|remove> <user-id>")
	}
	switch args[0] {
	case "add":
		return store.Blacklist(args[1])
	case "remove":
		return store.Unblacklist(args[1])
	default:
		return fmt.Errorf("unknown blacklist subcommand %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  cli cases [list]
  cli cases show <id>
  cli cases delete <id>
  cli blacklist add <user-id>
  cli blacklist remove <user-id>`)
}
