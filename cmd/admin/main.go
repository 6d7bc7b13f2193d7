// Command admin creates or promotes administrator accounts. It talks to
// the database directly so it works even when the HTTP server is down.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/ivanuser/car-project-manager-sub002/internal/common"
	"github.com/ivanuser/car-project-manager-sub002/internal/dbx"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/config"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/models"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/repositories/repomanager"
)

func main() {
	var (
		dsn     = flag.String("d", "", "database DSN (defaults to server config)")
		email   = flag.String("e", "", "account email")
		promote = flag.Bool("promote", false, "promote an existing account instead of creating one")
	)
	flag.Parse()

	if *email == "" {
		log.Fatal("email is required (-e)")
	}
	if *dsn == "" {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		*dsn = cfg.DatabaseDSN
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()

	if *promote {
		if err := promoteUser(ctx, db, rm, *email); err != nil {
			log.Fatalf("promote error: %v", err)
		}
		fmt.Printf("promoted %s to admin\n", *email)
		return
	}

	if err := createAdmin(ctx, db, rm, *email); err != nil {
		log.Fatalf("create error: %v", err)
	}
	fmt.Printf("created admin account %s\n", *email)
}

func promoteUser(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, email string) error {
	user, err := rm.Users(db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("no account with email %s", email)
		}
		return err
	}
	return rm.Users(db).SetAdmin(ctx, user.ID, true)
}

func createAdmin(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, email string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := rm.Users(tx).Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			IsAdmin:      true,
		})
		if err != nil {
			return err
		}
		_, err = rm.Profiles(tx).Create(ctx, user.ID)
		return err
	})
}

func readPassword() ([]byte, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	return password, nil
}
