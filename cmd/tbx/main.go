package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	apiclient "github.com/Brigames121/ChatGPT-Beta/pkg/api/client"
)

type cliConfig struct {
	APIBaseURL  string    `json:"api_base_url"`
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username,omitempty"`
	Role        string    `json:"role,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

var buildVersion = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = commandRegister(args)
	case "login":
		err = commandLogin(args)
	case "logout":
		err = commandLogout()
	case "whoami":
		err = commandWhoami()
	case "chat":
		err = commandChat(args)
	case "channel":
		err = commandChannel()
	case "settings":
		err = commandSettings(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commandRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	username := fs.String("username", "", "Display name")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default "+apiclient.DefaultBaseURL+")")
	fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	if strings.TrimSpace(*username) == "" {
		return errors.New("--username is required")
	}
	secret, err := readSecret(*password)
	if err != nil {
		return err
	}

	cfg, _ := loadConfig()
	applyAPIBase(&cfg, *apiBase)
	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := client.Register(ctx, *email, secret, *username)
	if err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println(resp.Message)
	return nil
}

func commandLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default "+apiclient.DefaultBaseURL+")")
	fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	secret, err := readSecret(*password)
	if err != nil {
		return err
	}

	cfg, _ := loadConfig()
	applyAPIBase(&cfg, *apiBase)
	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := client.Login(ctx, *email, secret)
	if err != nil {
		return err
	}
	cfg.AccessToken = resp.Token
	cfg.Username = resp.Username
	cfg.Role = resp.Role
	cfg.ExpiresAt = time.Now().Add(resp.Expiry()).UTC()
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("login successful: %s (%s)\n", resp.Username, resp.Role)
	return nil
}

func commandLogout() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.AccessToken = ""
	cfg.Username = ""
	cfg.Role = ""
	cfg.ExpiresAt = time.Time{}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func commandWhoami() error {
	cfg, client, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	user, err := client.Session(ctx, cfg.AccessToken)
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\t%s\t%s\n", user.ID, user.Email, user.Username, user.Role)
	return nil
}

func commandChat(args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	message := fs.String("message", "", "Single message to send (omit for an interactive session)")
	fs.Parse(args)

	cfg, client, err := authedClient()
	if err != nil {
		return err
	}
	if msg := strings.TrimSpace(*message); msg != "" {
		return sendChat(client, cfg.AccessToken, msg, os.Stdout)
	}

	fmt.Println("TechnoBotX listo. Escribe 'exit' para salir.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := sendChat(client, cfg.AccessToken, line, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func sendChat(client *apiclient.Client, token, message string, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	reply, err := client.Chat(ctx, token, message)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, reply)
	return nil
}

func commandChannel() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	data, err := client.ChannelData(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d subscribers)\n%s\n", data.ChannelName, data.Subscribers, data.WelcomeMessage)
	for _, v := range data.Videos {
		fmt.Printf("%s\t%s\n", v.ID, v.Title)
	}
	return nil
}

func commandSettings(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tbx settings [list|set]")
	}
	switch args[0] {
	case "list":
		return settingsList()
	case "set":
		return settingsSet(args[1:])
	default:
		return fmt.Errorf("unknown settings command: %s", args[0])
	}
}

func settingsList() error {
	cfg, client, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	settings, err := client.ListSettings(ctx, cfg.AccessToken)
	if err != nil {
		return err
	}
	for _, s := range settings {
		fmt.Printf("%s\t%s\t%s\t%s\n", s.ID, s.Value, s.UpdatedBy, s.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func settingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ExitOnError)
	id := fs.String("id", "", "Setting identifier (e.g. welcomeMessage)")
	value := fs.String("value", "", "Setting value")
	fs.Parse(args)

	if strings.TrimSpace(*id) == "" {
		return errors.New("--id is required")
	}
	cfg, client, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	msg, err := client.SaveSetting(ctx, cfg.AccessToken, *id, *value)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func authedClient() (cliConfig, *apiclient.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, nil, err
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return cliConfig{}, nil, errors.New("please login first using 'tbx login'")
	}
	if !cfg.ExpiresAt.IsZero() && time.Now().After(cfg.ExpiresAt) {
		return cliConfig{}, nil, errors.New("session expired, please login again using 'tbx login'")
	}
	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return cliConfig{}, nil, err
	}
	return cfg, client, nil
}

func readSecret(flagValue string) (string, error) {
	if secret := strings.TrimSpace(flagValue); secret != "" {
		return secret, nil
	}
	fmt.Print("Password: ")
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Print("\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bytes), nil
}

func applyAPIBase(cfg *cliConfig, flagValue string) {
	if strings.TrimSpace(flagValue) != "" {
		cfg.APIBaseURL = flagValue
	} else if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = apiclient.DefaultBaseURL
	}
}

func loadConfig() (cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cliConfig{APIBaseURL: apiclient.DefaultBaseURL}, nil
		}
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = apiclient.DefaultBaseURL
	}
	return cfg, nil
}

func saveConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func configPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv("TBX_CONFIG")); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "technobytex", "config.json"), nil
}

func printUsage() {
	fmt.Printf("tbx CLI %s\n\n", buildVersion)
	fmt.Print(`Usage:
	tbx register --email user@example.com --username name [--password secret] [--api http://localhost:3000]
	tbx login --email user@example.com [--password secret] [--api http://localhost:3000]
	tbx logout
	tbx whoami
	tbx chat [--message "hola"]
	tbx channel
	tbx settings list
	tbx settings set --id welcomeMessage --value "text"
	tbx version
`)
}

func printVersion() {
	fmt.Println(strings.TrimSpace(buildVersion))
}
