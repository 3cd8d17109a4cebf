package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/gaku/internal/storage"
)

func newCardsCommand() *cobra.Command {
	cardsCommand := &cobra.Command{
		Use:   "cards",
		Short: "Import and export flashcards",
	}
	cardsCommand.AddCommand(newCardsImportCommand())
	cardsCommand.AddCommand(newCardsExportCommand())
	return cardsCommand
}

func newCardsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import cards from a YAML file. Repeated imports of the same file are idempotent for sources and links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			file, err := storage.ReadCardFile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := storage.NewCardRepository(db).AddCards(ctx, file.Cards); err != nil {
				return fmt.Errorf("add cards > %w", err)
			}

			sources := storage.NewSourceRepository(db)
			if err := sources.AddSources(ctx, file.Sources); err != nil {
				return fmt.Errorf("add sources > %w", err)
			}
			links := make(map[string]string, len(file.Links))
			for _, link := range file.Links {
				links[link.CardID] = link.SourceID
			}
			if err := sources.AddCardSourceLinks(ctx, links); err != nil {
				return fmt.Errorf("add card source links > %w", err)
			}

			fmt.Printf("Imported %d cards, %d sources and %d links from %s\n",
				len(file.Cards), len(file.Sources), len(file.Links), args[0])
			return nil
		},
	}
}

func newCardsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export every card, source and link to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ctx := cmd.Context()
			cards, err := storage.NewCardRepository(db).ListAnyState(ctx, 0)
			if err != nil {
				return fmt.Errorf("list cards > %w", err)
			}

			sourceRepo := storage.NewSourceRepository(db)
			sources, err := sourceRepo.ListSources(ctx)
			if err != nil {
				return fmt.Errorf("list sources > %w", err)
			}
			linkMap, err := sourceRepo.ListCardSourceLinks(ctx)
			if err != nil {
				return fmt.Errorf("list card source links > %w", err)
			}

			cardIDs := make([]string, 0, len(linkMap))
			for cardID := range linkMap {
				cardIDs = append(cardIDs, cardID)
			}
			sort.Strings(cardIDs)
			links := make([]storage.SourceLink, 0, len(cardIDs))
			for _, cardID := range cardIDs {
				links = append(links, storage.SourceLink{CardID: cardID, SourceID: linkMap[cardID]})
			}

			file := storage.CardFile{
				Sources: sources,
				Cards:   cards,
				Links:   links,
			}
			if err := storage.WriteCardFile(args[0], file); err != nil {
				return err
			}

			fmt.Printf("Exported %d cards, %d sources and %d links to %s\n",
				len(cards), len(sources), len(links), args[0])
			return nil
		},
	}
}
