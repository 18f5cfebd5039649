// Command oauth-init walks through the Google OAuth consent flow once and
// stores the resulting token where the export worker expects it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const authTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := clientConfig()
	if err != nil {
		log.Fatalf("oauth-init: %v", err)
	}

	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}
	// The OAuth client must list this callback among its authorized
	// redirect URIs.
	cfg.RedirectURL = "http://localhost:" + port + "/callback"

	code, err := waitForConsent(cfg, port)
	if err != nil {
		log.Fatalf("oauth-init: %v", err)
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("oauth-init: token exchange: %v", err)
	}
	if err := saveToken(token); err != nil {
		log.Fatalf("oauth-init: %v", err)
	}
}

// clientConfig loads the OAuth client either inline from the environment or
// from a credentials file.
func clientConfig() (*oauth2.Config, error) {
	var raw []byte
	switch {
	case os.Getenv("GOOGLE_OAUTH_CLIENT_JSON") != "":
		raw = []byte(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	case os.Getenv("GOOGLE_OAUTH_CLIENT_FILE") != "":
		b, err := os.ReadFile(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
	return google.ConfigFromJSON(raw, sheets.SpreadsheetsScope)
}

// waitForConsent serves the local callback, prints the consent URL and
// blocks until Google redirects back with an authorization code.
func waitForConsent(cfg *oauth2.Config, port string) (string, error) {
	codeCh := make(chan string, 1)
	srv := &http.Server{Addr: ":" + port}
	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if e := r.URL.Query().Get("error"); e != "" {
			http.Error(w, "authorization refused: "+e, http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Token received, you can close this tab.")
		codeCh <- r.URL.Query().Get("code")
		go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
	})
	go func() { _ = srv.ListenAndServe() }()

	fmt.Printf("Open this URL to authorize:\n%s\n", cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case code := <-codeCh:
		return code, nil
	case <-time.After(authTimeout):
		return "", fmt.Errorf("authorization timed out after %s", authTimeout)
	case <-interrupt:
		return "", fmt.Errorf("interrupted")
	}
}

func saveToken(token *oauth2.Token) error {
	path := os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")
	if path == "" {
		path = "token.json"
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	fmt.Printf("Saved token to %s\n", path)
	return nil
}
