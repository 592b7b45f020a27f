package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/indiesemi/gate2jira/internal/importer"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/output"
	"github.com/indiesemi/gate2jira/internal/prompt"
	"github.com/spf13/cobra"
)

// Credential environment variables.
const (
	envUser     = "GATE2JIRA_USER"
	envPassword = "GATE2JIRA_PASSWORD"
	envToken    = "GATE2JIRA_TOKEN"
)

// newTracker builds the Jira client. Tests replace it.
var newTracker = func(creds jira.Credentials) importer.Tracker {
	return jira.New(cfg.BaseURL, creds, cfg.Timeout)
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "Jira username (env "+envUser+")")
	cmd.Flags().Bool("token-auth", false, "authenticate with a personal access token (env "+envToken+") instead of a password ("+envPassword+")")
	cmd.Flags().Bool("plain", false, "line-based prompts even on a terminal")
}

// prompterFor picks the prompt implementation for cmd.
func prompterFor(cmd *cobra.Command) prompt.Prompter {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return prompt.NewLines(os.Stdin, os.Stderr)
	}
	return prompt.New()
}

// credentials collects username and secret from flags, then the
// environment, then prompts.
func credentials(cmd *cobra.Command, p prompt.Prompter) (jira.Credentials, error) {
	var creds jira.Credentials

	creds.Username, _ = cmd.Flags().GetString("user")
	if creds.Username == "" {
		creds.Username = os.Getenv(envUser)
	}
	if strings.TrimSpace(creds.Username) == "" {
		u, err := p.Input("Username", "", prompt.Required)
		if err != nil {
			return creds, err
		}
		creds.Username = strings.TrimSpace(u)
	}

	envTok, envPass := os.Getenv(envToken), os.Getenv(envPassword)
	var useToken bool
	switch {
	case cmd.Flags().Changed("token-auth"):
		useToken, _ = cmd.Flags().GetBool("token-auth")
	case envTok != "":
		useToken = true
	case envPass != "":
		useToken = false
	default:
		var err error
		if useToken, err = prompt.AuthMode(p); err != nil {
			return creds, err
		}
	}

	var err error
	if useToken {
		creds.Token = envTok
		if creds.Token == "" {
			creds.Token, err = p.Secret("Personal Access Token")
		}
		return creds, err
	}
	creds.Password = envPass
	if creds.Password == "" {
		creds.Password, err = p.Secret("Password")
	}
	return creds, err
}

// connect gathers credentials and verifies them before anything else
// talks to Jira.
func connect(ctx context.Context, cmd *cobra.Command, p prompt.Prompter) (*importer.Coordinator, error) {
	creds, err := credentials(cmd, p)
	if err != nil {
		output.Error("%v", err)
		return nil, err
	}
	due, err := dueDate()
	if err != nil {
		output.Error("%v", err)
		return nil, err
	}

	coord := importer.New(newTracker(creds), cfg, due)
	user, err := coord.Authenticate(ctx)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidCredentials) {
			output.Error("Invalid credentials. Please check your username and password or token.")
		} else {
			output.Error("could not reach %s: %v", cfg.BaseURL, err)
		}
		return nil, err
	}
	output.Success("Signed in to %s as %s", cfg.BaseURL, output.FormatUser(user))
	return coord, nil
}
