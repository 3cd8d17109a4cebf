package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/gaku/internal/dictionary"
)

const dictionaryRetryAttempts = 3

func newDictionaryCommand() *cobra.Command {
	dictionaryCommand := &cobra.Command{
		Use:   "dictionary",
		Short: "Dictionary lookups through the Jisho API",
	}
	dictionaryCommand.AddCommand(newDictionaryLookupCommand())
	return dictionaryCommand
}

func newDictionaryLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word. Responses are cached on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			client := dictionary.NewClient(cfg.Dictionary.CacheDirectory, dictionaryRetryAttempts)
			response, err := client.Lookup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("client.Lookup > %w", err)
			}
			if len(response.Data) == 0 {
				fmt.Printf("No entries found for %q.\n", args[0])
				return nil
			}

			for _, entry := range response.Data {
				printEntry(entry)
			}
			return nil
		},
	}
}

func printEntry(entry dictionary.Entry) {
	fmt.Println(entry.Word())
	for _, japanese := range entry.Japanese {
		if japanese.Reading != "" {
			fmt.Printf("  reading: %s\n", japanese.Reading)
		}
	}
	for i, sense := range entry.Senses {
		if len(sense.EnglishDefinitions) == 0 {
			continue
		}
		fmt.Printf("  %d. %s", i+1, strings.Join(sense.EnglishDefinitions, "; "))
		if len(sense.PartsOfSpeech) > 0 {
			fmt.Printf(" (%s)", strings.Join(sense.PartsOfSpeech, ", "))
		}
		fmt.Println()
	}
	fmt.Println()
}
