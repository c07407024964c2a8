package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"namaz-cli/internal/adapter/primary/tui"
	"namaz-cli/internal/adapter/secondary/repository"
	"namaz-cli/internal/domain"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved settings",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd(), newConfigResetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the effective settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			// Convert to display format
			display := map[string]interface{}{
				"path":            cfgPath,
				"configured":      settings.Configured(),
				"city":            settings.City,
				"country":         settings.Country,
				"method":          settings.Method,
				"language":        settings.Language,
				"font":            settings.Font,
				"theme":           settings.Theme,
				"refreshInterval": settings.RefreshInterval.String(),
				"apiBaseURL":      settings.APIBaseURL,
				"cachePath":       settings.CachePath,
				"mqtt": map[string]interface{}{
					"enabled":     settings.MQTT.Enabled,
					"broker":      settings.MQTT.Broker,
					"topicPrefix": settings.MQTT.TopicPrefix,
					"username":    settings.MQTT.Username,
					"password":    mask(settings.MQTT.Password),
				},
			}

			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func newConfigSetCmd() *cobra.Command {
	var (
		cityFlag     string
		countryFlag  string
		methodFlag   int
		langFlag     string
		fontFlag     string
		themeFlag    string
		intervalFlag time.Duration
		apiFlag      string
		mqttFlag     string
		brokerFlag   string
		topicFlag    string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change saved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("city") {
				settings.City = cityFlag
			}
			if flags.Changed("country") {
				settings.Country = countryFlag
			}
			if flags.Changed("method") {
				settings.Method = methodFlag
			}
			if flags.Changed("lang") {
				settings.Language = strings.ToLower(langFlag)
			}
			if flags.Changed("font") {
				settings.Font = fontFlag
			}
			if flags.Changed("theme") {
				if _, err := tui.LookupTheme(themeFlag); err != nil {
					return err
				}
				settings.Theme = strings.ToLower(themeFlag)
			}
			if flags.Changed("interval") {
				settings.RefreshInterval = intervalFlag
			}
			if flags.Changed("api") {
				settings.APIBaseURL = apiFlag
			}
			if flags.Changed("mqtt") {
				switch mqttFlag {
				case "true":
					settings.MQTT.Enabled = true
				case "false":
					settings.MQTT.Enabled = false
				default:
					return errors.New("--mqtt expects true or false")
				}
			}
			if flags.Changed("mqtt-broker") {
				settings.MQTT.Broker = brokerFlag
			}
			if flags.Changed("mqtt-topic") {
				settings.MQTT.TopicPrefix = topicFlag
			}

			if err := validatePartial(settings); err != nil {
				return err
			}
			if err := repo.Save(settings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved: city=%s country=%s method=%d lang=%s interval=%s\n",
				settings.City, settings.Country, settings.Method, settings.Language, settings.RefreshInterval)
			return nil
		},
	}
	cmd.Flags().StringVar(&cityFlag, "city", "", "city name")
	cmd.Flags().StringVar(&countryFlag, "country", "", "country name")
	cmd.Flags().IntVar(&methodFlag, "method", domain.DefaultMethod, "calculation method id of the timing provider")
	cmd.Flags().StringVar(&langFlag, "lang", domain.DefaultLanguage, "label language ("+strings.Join(domain.Languages(), ", ")+")")
	cmd.Flags().StringVar(&fontFlag, "font", domain.DefaultFont, "banner font")
	cmd.Flags().StringVar(&themeFlag, "theme", domain.DefaultTheme, "color theme ("+strings.Join(tui.Themes(), ", ")+")")
	cmd.Flags().DurationVar(&intervalFlag, "interval", domain.DefaultRefreshInterval, "refresh interval, e.g. 30m, 2h")
	cmd.Flags().StringVar(&apiFlag, "api", domain.DefaultAPIBaseURL, "timing provider base URL")
	cmd.Flags().StringVar(&mqttFlag, "mqtt", "", "true/false to toggle MQTT announcements")
	cmd.Flags().StringVar(&brokerFlag, "mqtt-broker", domain.DefaultBroker, "MQTT broker URL")
	cmd.Flags().StringVar(&topicFlag, "mqtt-topic", domain.DefaultTopicPrefix, "MQTT topic prefix")
	return cmd
}

// validatePartial checks what can be checked before setup is complete.
func validatePartial(settings domain.Settings) error {
	if settings.Configured() {
		return settings.Validate()
	}
	if !domain.HasLanguage(settings.Language) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownLanguage, settings.Language)
	}
	if settings.RefreshInterval < time.Minute {
		return domain.ErrInvalidInterval
	}
	return nil
}

func newConfigResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			if err := repo.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", repo.Path())
			return nil
		},
	}
}
