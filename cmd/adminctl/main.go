// Command adminctl creates an account directly in the database, bypassing
// the HTTP endpoint. Intended for bootstrapping the first user of a fresh
// deployment.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kartyapp/authcore/internal/common"
	"github.com/kartyapp/authcore/internal/logging"
	"github.com/kartyapp/authcore/internal/server/config"
	"github.com/kartyapp/authcore/internal/server/mail"
	"github.com/kartyapp/authcore/internal/server/repositories/repomanager"
	"github.com/kartyapp/authcore/internal/server/services"
)

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	username, err := readLine(reader, "Enter username")
	if err != nil {
		return err
	}

	email, err := readLine(reader, "Enter email")
	if err != nil {
		return err
	}

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	svc := services.NewAuthService(db, rm, mail.NewLogMailer(logger), logger, cfg)

	user, err := svc.Register(ctx, username, email, string(password))
	if err != nil {
		return err
	}

	fmt.Printf("created user %s (%s)\n", user.UserName, user.ID)
	return nil
}

func main() {
	cfg := config.LoadConfig()
	if err := run(context.Background(), cfg); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
