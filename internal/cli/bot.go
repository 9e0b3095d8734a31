package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nathfavour/pippin/pkg/config"
	"github.com/nathfavour/pippin/pkg/metrics"
	"github.com/nathfavour/pippin/pkg/social"
	"github.com/nathfavour/pippin/pkg/vault"
)

// openVault is swapped in tests for an in-memory keyring.
var openVault = func() (*vault.Vault, error) {
	return vault.Open(config.KeyringDir())
}

var platforms = []string{social.PlatformTelegram, social.PlatformDiscord}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Relay Telegram and Discord chats to Pippin",
}

var botRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer messages on every platform with a token",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}

		configured := map[string]string{
			social.PlatformTelegram: settings.TelegramToken,
			social.PlatformDiscord:  settings.DiscordToken,
		}

		var providers []social.MessengerProvider
		for _, platform := range platforms {
			token, err := v.Resolve(configured[platform], vault.TokenKey(platform))
			if errors.Is(err, vault.ErrSecretNotFound) {
				logger.Debug("no token, skipping", zap.String("platform", platform))
				continue
			}
			if err != nil {
				return err
			}
			p, err := social.NewProvider(platform, token)
			if err != nil {
				return fmt.Errorf("connect %s: %w", platform, err)
			}
			providers = append(providers, p)
		}
		if len(providers) == 0 {
			return errors.New("no bot tokens configured; run 'pippin bot token set <platform> <token>'")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		relay := social.NewRelay(
			providers,
			metrics.NewResponder(selector, nil, "bot"),
			selector.Persona(),
			social.WithLogger(logger),
			social.WithDelay(settings.Delay),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Relaying %d bot(s). Press Ctrl+C to stop.\n", len(providers))
		return relay.Run(ctx)
	},
}

var botTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage stored bot tokens",
}

var botTokenSetCmd = &cobra.Command{
	Use:       "set [platform] [token]",
	Short:     "Store a bot token in the keyring",
	Args:      cobra.ExactArgs(2),
	ValidArgs: platforms,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !knownPlatform(args[0]) {
			return fmt.Errorf("unsupported platform: %s", args[0])
		}
		v, err := openVault()
		if err != nil {
			return err
		}
		if err := v.Set(vault.TokenKey(args[0]), args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s token %s\n", args[0], vault.Mask(args[1]))
		return nil
	},
}

var botTokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored bot tokens (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := openVault()
		if err != nil {
			return err
		}
		keys, err := v.List()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tokens stored.")
			return nil
		}
		sort.Strings(keys)
		for _, k := range keys {
			secret, err := v.Get(k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "- %s: %s\n", k, vault.Mask(secret))
		}
		return nil
	},
}

var botTokenRemoveCmd = &cobra.Command{
	Use:   "remove [platform]",
	Short: "Delete a stored bot token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !knownPlatform(args[0]) {
			return fmt.Errorf("unsupported platform: %s", args[0])
		}
		v, err := openVault()
		if err != nil {
			return err
		}
		if err := v.Remove(vault.TokenKey(args[0])); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s token\n", args[0])
		return nil
	},
}

func knownPlatform(p string) bool {
	for _, known := range platforms {
		if p == known {
			return true
		}
	}
	return false
}

func init() {
	botTokenCmd.AddCommand(botTokenSetCmd, botTokenListCmd, botTokenRemoveCmd)
	botCmd.AddCommand(botRunCmd, botTokenCmd)
	rootCmd.AddCommand(botCmd)
}
