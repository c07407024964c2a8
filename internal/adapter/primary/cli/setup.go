package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"namaz-cli/internal/domain"
)

const (
	defaultCountry = "Turkey"
	defaultCity    = "Istanbul"
)

var errSetupAborted = errors.New("setup aborted: country and city are required")

// prompter asks for one value with def pre-filled.
type prompter func(label, def string) (string, error)

// askLocation fills in country and city. An empty answer aborts.
func askLocation(settings domain.Settings, ask prompter) (domain.Settings, error) {
	country, err := ask("Country: ", defaultCountry)
	if err != nil {
		return settings, err
	}
	if country = strings.TrimSpace(country); country == "" {
		return settings, errSetupAborted
	}

	city, err := ask("City: ", defaultCity)
	if err != nil {
		return settings, err
	}
	if city = strings.TrimSpace(city); city == "" {
		return settings, errSetupAborted
	}

	settings.Country = country
	settings.City = city
	return settings, nil
}

// setupInteractive runs the first-run prompts and saves the answers.
func setupInteractive(settings domain.Settings, repo domain.ConfigRepository) (domain.Settings, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return settings, err
	}
	defer rl.Close()

	fmt.Println("First run: enter the location to fetch prayer times for.")
	settings, err = askLocation(settings, func(label, def string) (string, error) {
		rl.SetPrompt(label)
		line, err := rl.ReadlineWithDefault(def)
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", errSetupAborted
		}
		return line, err
	})
	if err != nil {
		return settings, err
	}

	if err := repo.Save(settings); err != nil {
		return settings, err
	}
	fmt.Printf("Saved %s, %s. Use --reset to change it.\n", settings.City, settings.Country)
	return settings, nil
}
