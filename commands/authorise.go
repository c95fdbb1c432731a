package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/stanford-ppl/regression-sheets/config"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir:     "",
		credentials: "",
		debug:       false,
	},
}

type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises regression-sheets to access the regression Google Sheets"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options]\n", APP)
	fmt.Println()
	fmt.Println("  Runs the OAuth2 authorisation flow for an OAuth2 client secret and caches the tokens")
	fmt.Println("  for the report commands. Not required for service account credentials.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    regression-sheets authorise --credentials "credentials.json"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, lock file)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the cached OAuth2 tokens. Defaults to <workdir>/.google")

	cmd.flags = flagset

	return flagset
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	credentials := cmd.credentialsFile(cfg)
	b, err := os.ReadFile(credentials)
	if err != nil {
		return fmt.Errorf("%v (%w)", credentials, err)
	}

	conf, err := google.ConfigFromJSON(b, SHEETS, DRIVE)
	if err != nil {
		return fmt.Errorf("invalid OAuth2 client secret %v (%w)", credentials, err)
	}

	token, err := cmd.exchange(context.Background(), conf)
	if err != nil {
		return err
	}

	file := tokensFile(credentials, cmd.tokensDir(cfg))
	if err := saveToken(file, token); err != nil {
		return err
	}

	infof("Saved OAuth2 token to %v", file)

	return nil
}

// Request a token from the web, then returns the retrieved token.
func (cmd *Authorise) exchange(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	url := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser then type the authorization code:\n\n  %v\n\n> ", url)

	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("unable to read authorization code (%w)", err)
	}

	token, err := conf.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web (%w)", err)
	}

	return token, nil
}
