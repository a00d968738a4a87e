package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"git.sr.ht/~jakintosh/grant/internal/api"
	"git.sr.ht/~jakintosh/grant/internal/database"
	"git.sr.ht/~jakintosh/grant/internal/resources"
	"git.sr.ht/~jakintosh/grant/internal/service"
	"git.sr.ht/~jakintosh/grant/internal/tokens"
)

// Config holds all command-line configuration
type Config struct {
	ListenAddr  string
	DBPath      string
	SecretPath  string
	Algorithm   string
	Issuer      string
	Audience    string
	ExpirySecs  int
	OriginsPath string
	Users       []UserSeed
}

// UserSeed holds a username, password, and scope list for seeding
type UserSeed struct {
	Username string
	Password string
	Scopes   []string
}

// UserFlag is a custom flag type for repeatable --user flags
type UserFlag []UserSeed

func (u *UserFlag) String() string {
	return fmt.Sprintf("%v", *u)
}

func (u *UserFlag) Set(value string) error {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("user must be in format 'username:password[:scope,scope]'")
	}
	seed := UserSeed{Username: parts[0], Password: parts[1]}
	if len(parts) == 3 && parts[2] != "" {
		seed.Scopes = strings.Split(parts[2], ",")
	}
	*u = append(*u, seed)
	return nil
}

func main() {
	cfg := parseFlags()

	secret := loadSecret(cfg.SecretPath)

	signer, err := tokens.NewSigner(
		secret,
		cfg.Algorithm,
		cfg.Issuer,
		cfg.Audience,
		time.Duration(cfg.ExpirySecs)*time.Second,
	)
	if err != nil {
		log.Fatalf("failed to configure signer: %v\n", err)
	}

	origins, err := resources.WatchOriginsFile(cfg.OriginsPath)
	if err != nil {
		log.Fatalf("failed to load trusted origins: %v\n", err)
	}

	db := database.NewSQLiteStore(cfg.DBPath, database.PasswordModeProduction)
	defer db.Close()

	if err := seedUsers(db, cfg.Users); err != nil {
		log.Fatalf("failed to seed users: %v\n", err)
	}

	svc := service.New(db.IdentityStore(), signer)
	router := api.New(svc, origins).Router()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v\n", err)
	}
	defer listener.Close()
	log.Printf("listening on %s\n", listener.Addr())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- http.Serve(listener, router)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalf("server error: %v\n", err)
	case sig := <-sigChan:
		log.Printf("received signal %v, shutting down\n", sig)
	}
}

func parseFlags() Config {
	var cfg Config
	var users UserFlag

	flag.StringVar(&cfg.ListenAddr, "listen", "127.0.0.1:9000", "Listen address")
	flag.StringVar(&cfg.DBPath, "db", "grant.sqlite", "Path to the SQLite database")
	flag.StringVar(&cfg.SecretPath, "secret-file", "", "Path to the signing secret file (required)")
	flag.StringVar(&cfg.Algorithm, "algorithm", "HS256", "Token signing algorithm")
	flag.StringVar(&cfg.Issuer, "issuer", "", "Token issuer claim (required)")
	flag.StringVar(&cfg.Audience, "audience", "", "Token audience claim (required)")
	flag.IntVar(&cfg.ExpirySecs, "expiry", 3600, "Token lifetime in seconds")
	flag.StringVar(&cfg.OriginsPath, "origins-file", "", "Path to the trusted origins file (required)")
	flag.Var(&users, "user", "Seed user in format 'username:password[:scope,scope]' (repeatable)")

	flag.Parse()

	if cfg.SecretPath == "" {
		log.Fatal("--secret-file is required")
	}
	if cfg.OriginsPath == "" {
		log.Fatal("--origins-file is required")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		log.Fatal("--issuer and --audience are required")
	}

	cfg.Users = users
	return cfg
}

func loadSecret(path string) []byte {
	secret, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read signing secret: %v\n", err)
	}
	secret = []byte(strings.TrimSpace(string(secret)))
	if len(secret) == 0 {
		log.Fatalf("signing secret file '%s' is empty\n", path)
	}
	return secret
}

func seedUsers(db *database.SQLiteStore, users []UserSeed) error {
	for _, user := range users {
		err := db.InsertIdentity(user.Username, user.Password, user.Scopes)
		if err != nil {
			return fmt.Errorf("insert account %s: %w", user.Username, err)
		}
		log.Printf("seeded user %s\n", user.Username)
	}
	return nil
}
