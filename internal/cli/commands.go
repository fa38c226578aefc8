package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mboyd/capitoltrader/internal/alpaca"
	"github.com/mboyd/capitoltrader/internal/config"
	"github.com/mboyd/capitoltrader/internal/disclosures"
	"github.com/mboyd/capitoltrader/internal/display"
	"github.com/mboyd/capitoltrader/internal/trading"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "capitoltrader",
		Short: "capitoltrader - mirror congressional stock disclosures",
		Long: `capitoltrader ingests the daily house and senate stock-transaction
disclosure reports and mirrors them as proportionally sized market orders
against an Alpaca brokerage account.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			setupLogging(debug)
			return nil
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newPositionsCmd())
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	} else if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func newBroker(cfg *config.Config) *alpaca.Client {
	return alpaca.NewClient(alpaca.ClientOptions{
		KeyID:   cfg.AlpacaKeyID,
		Secret:  cfg.AlpacaSecret,
		BaseURL: cfg.AlpacaBaseURL,
		DataURL: cfg.AlpacaDataURL,
		Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
}

// newAccountCmd creates the account command
func newAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account information",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			account, err := newBroker(cfg).GetAccount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(display.RenderAccount(account))
			return nil
		},
	}
}

// newPositionsCmd creates the positions command
func newPositionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Show current positions and total balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			broker := newBroker(cfg)
			account, err := broker.GetAccount(cmd.Context())
			if err != nil {
				return err
			}
			positions, err := broker.GetPositions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(display.RenderPositions(positions, account.Cash))
			return nil
		},
	}
}

// newOrderCmd creates the order command running the disclosure batch
func newOrderCmd() *cobra.Command {
	var (
		chamberFlag string
		dryRun      bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Mirror one day's disclosures as market orders",
		Long: `Fetch the disclosure report for the chosen chamber, normalize it into
trade intents and submit proportionally sized market orders.
Example: capitoltrader order --chamber house --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			chamber, err := disclosures.ParseChamber(chamberFlag)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			feed := disclosures.NewClient(disclosures.ClientOptions{
				Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
			})
			intents, err := feed.FetchIntents(cmd.Context(), chamber)
			if err != nil {
				return err
			}

			if !yes && !dryRun {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Submit market orders for %d disclosure intents?", len(intents)),
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					log.Info().Msg("Aborted, no orders submitted")
					return nil
				}
			}

			broker := newBroker(cfg)
			synthesizer := trading.NewSynthesizer(broker, trading.NewFallbackPriceSource(broker))
			synthesizer.DryRun = dryRun

			summary, err := synthesizer.Run(cmd.Context(), intents)
			if err != nil {
				return err
			}
			fmt.Printf("Orders placed: %d, rejected: %d, skipped: %d\n",
				summary.Placed, summary.Rejected, summary.Skipped())
			return nil
		},
	}

	cmd.Flags().StringVar(&chamberFlag, "chamber", "senate", "Chamber to ingest (house or senate)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve orders without submitting them")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("capitoltrader v1.0.0")
		},
	}
}
