package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"carfinder/internal/repository"
	"carfinder/internal/service"
	"carfinder/pkg/logger"
)

// app is the resolver stack shared by every subcommand of one invocation
type app struct {
	catalog        *repository.FileCatalog
	resolver       *service.Resolver
	conversationID string
	limit          int
}

type rootOptions struct {
	dataPath       string
	conversationID string
	limit          int
	verbose        bool
	noColor        bool
}

// NewRootCommand builds the carctl command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "carctl",
		Short: "Query the car inventory the way the assistant does",
		Long: `carctl runs the conversational query resolver against a local inventory file.
Requests are resolved with the same extraction, pagination and context rules as the
carInventory tool, so follow-ups like "next page" or "same price range" work in chat.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initUI(opts.noColor)

			log := logger.NewNop()
			if opts.verbose {
				dev, err := logger.NewDevelopment()
				if err != nil {
					return fmt.Errorf("create logger: %w", err)
				}
				log = dev
			}

			catalog, err := repository.LoadFileCatalog(opts.dataPath)
			if err != nil {
				return err
			}

			a.catalog = catalog
			a.resolver = service.NewResolver(catalog, service.NewContextStore(repository.NewMemorySessionStore(0)), log)
			a.conversationID = opts.conversationID
			a.limit = opts.limit
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.dataPath, "data", "d", "data/inventory.json", "inventory file (JSON, CSV or XLSX)")
	flags.StringVar(&opts.conversationID, "conversation", "cli", "conversation id used for follow-ups")
	flags.IntVarP(&opts.limit, "limit", "n", 0, "results per page (default 5, max 10)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log resolver decisions to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newAskCommand(a),
		newChatCommand(a),
		newCompareCommand(a),
		newCatalogCommand(a),
		newImportCommand(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}
