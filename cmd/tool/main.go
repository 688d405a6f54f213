// Command tool is a developer helper for the auth service.
//
//	tool -mode tokens -n 1000 -out tests/load/tokens.csv
//	tool -mode smoke -base http://localhost:8080
//
// tokens mode signs access tokens with JWT_SECRET / JWT_ISSUER for load tests.
// smoke mode runs register → login → /api/users/me against a running service.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmassist/auth-service/internal/config"
	"github.com/farmassist/auth-service/internal/infrastructure/security"
)

func main() {
	_, _ = config.LoadDotEnv()
	os.Exit(run(os.Args[1:], os.Stdout, os.Getenv, &http.Client{Timeout: 10 * time.Second}))
}

func run(args []string, out io.Writer, getenv func(string) string, client *http.Client) int {
	fs := flag.NewFlagSet("tool", flag.ContinueOnError)
	fs.SetOutput(out)
	mode := fs.String("mode", "tokens", "tokens | smoke")
	n := fs.Int("n", 1000, "tokens to generate")
	outFile := fs.String("out", "tests/load/tokens.csv", "token output file")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	base := fs.String("base", "http://localhost:8080", "service base URL for smoke mode")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var err error
	switch *mode {
	case "tokens":
		err = generateTokens(getenv, *n, *outFile, *ttl, out)
	case "smoke":
		err = smoke(client, strings.TrimRight(*base, "/"), out)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return 1
	}
	return 0
}

func generateTokens(getenv func(string) string, n int, path string, ttl time.Duration, out io.Writer) error {
	secret := getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	issuer := getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "farm-auth"
	}
	signer := security.NewJWTSigner(secret, issuer)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < n; i++ {
		uid := uuid.NewString()
		tok, _, err := signer.SignAccessToken(uid, fmt.Sprintf("load-%d@farm.test", i), ttl)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(tok + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "wrote %d tokens to %s\n", n, path)
	return nil
}

func smoke(client *http.Client, base string, out io.Writer) error {
	email := "smoke-" + uuid.NewString()[:8] + "@farm.test"
	password := "Smoke-" + uuid.NewString()[:12]

	status, _, err := postJSON(client, base+"/api/auth/register", map[string]string{
		"firstName": "Smoke",
		"lastName":  "Test",
		"email":     email,
		"farmName":  "Smoke Farm",
		"farmType":  "test",
		"password":  password,
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("register: unexpected status %d", status)
	}
	fmt.Fprintf(out, "registered %s\n", email)

	status, body, err := postJSON(client, base+"/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("login: unexpected status %d", status)
	}
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &login); err != nil || login.Data.Token == "" {
		return fmt.Errorf("login: no token in response")
	}
	fmt.Fprintln(out, "login ok")

	req, err := http.NewRequest(http.MethodGet, base+"/api/users/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("me: unexpected status %d", resp.StatusCode)
	}
	fmt.Fprintln(out, "me ok")
	return nil
}

func postJSON(client *http.Client, url string, v any) (int, []byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, nil, err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}
