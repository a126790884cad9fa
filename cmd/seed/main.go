package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sampleapp/internal/auth"
	"sampleapp/internal/config"
	"sampleapp/internal/db"
	"sampleapp/internal/logging"
	"sampleapp/internal/model"
	"sampleapp/internal/repository"
	"sampleapp/internal/service"
	"sampleapp/internal/validation"
)

const (
	adminName  = "Example User"
	adminEmail = "example@railstutorial.org"
	password   = "foobar"
)

// seedFlags holds the parsed flags for the seed command.
type seedFlags struct {
	users    int
	posters  int
	posts    int
	reset    bool
	logLevel string
}

var words = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
	"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore",
}

func main() {
	var flags seedFlags
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the database with sample users, microposts and follows",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), config.Load(), flags)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.users, "users", 99, "Number of generated users besides the admin")
	f.IntVar(&flags.posters, "posters", 6, "Number of users that receive microposts")
	f.IntVar(&flags.posts, "posts", 50, "Microposts per poster")
	f.BoolVar(&flags.reset, "reset", false, "Drop all tables before seeding")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, flags seedFlags) error {
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	gormDB, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if flags.reset {
		if err := db.Reset(gormDB); err != nil {
			return err
		}
		logger.Warn("tables dropped")
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	logger.Info("database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewMicropostRepository(gormDB)
	relRepo := repository.NewRelationshipRepository(gormDB)

	hasher := auth.NewHasher(cfg.BcryptCost)
	posts := service.NewMicropostService(postRepo, validation.New(), cfg.PerPage, logger)
	relations := service.NewRelationshipService(relRepo, userRepo, postRepo, cfg.PerPage, logger)

	users, err := seedUsers(ctx, userRepo, hasher, flags.users, logger)
	if err != nil {
		return err
	}
	logger.WithField("count", len(users)).Info("users seeded")

	created := 0
	for _, u := range users[:min(flags.posters, len(users))] {
		for i := 0; i < flags.posts; i++ {
			if _, err := posts.Create(ctx, u.ID, sentence(u.ID, i)); err != nil {
				return fmt.Errorf("create micropost for user %d: %w", u.ID, err)
			}
			created++
		}
	}
	logger.WithField("count", created).Info("microposts seeded")

	follows, err := seedFollows(ctx, relations, users)
	if err != nil {
		return err
	}
	logger.WithField("count", follows).Info("relationships seeded")
	return nil
}

// seedUsers creates the admin and n generated users in one transaction.
// Users that already exist are reused.
func seedUsers(ctx context.Context, repo repository.UserRepository, hasher *auth.Hasher, n int, logger logrus.FieldLogger) ([]model.User, error) {
	digest, err := hasher.Digest(password)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, n+1)
	err = repo.WithTransaction(ctx, func(ctx context.Context, tx repository.UserRepository) error {
		for i := 0; i <= n; i++ {
			u := model.User{
				Name:           fmt.Sprintf("User %d", i),
				Email:          fmt.Sprintf("example-%d@railstutorial.org", i),
				PasswordDigest: digest,
			}
			if i == 0 {
				u.Name, u.Email, u.Admin = adminName, adminEmail, true
			}

			existing, err := tx.FindByEmail(ctx, u.Email)
			switch {
			case err == nil:
				users = append(users, *existing)
				continue
			case !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("look up %s: %w", u.Email, err)
			}
			if err := tx.Create(ctx, &u); err != nil {
				return fmt.Errorf("create %s: %w", u.Email, err)
			}
			logger.WithField("email", u.Email).Debug("user created")
			users = append(users, u)
		}
		return nil
	})
	return users, err
}

// seedFollows makes the admin follow users[2:50] and users[3:40] follow the
// admin.
func seedFollows(ctx context.Context, relations service.RelationshipService, users []model.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	admin := users[0]
	n := 0
	for _, u := range users[min(2, len(users)):min(50, len(users))] {
		if err := relations.Follow(ctx, admin.ID, u.ID); err != nil {
			return n, fmt.Errorf("follow %d: %w", u.ID, err)
		}
		n++
	}
	for _, u := range users[min(3, len(users)):min(40, len(users))] {
		if err := relations.Follow(ctx, u.ID, admin.ID); err != nil {
			return n, fmt.Errorf("follow admin from %d: %w", u.ID, err)
		}
		n++
	}
	return n, nil
}

func sentence(seed uint, i int) string {
	n := 5 + (int(seed)+i)%5
	out := ""
	for j := 0; j < n; j++ {
		if j > 0 {
			out += " "
		}
		out += words[(int(seed)*7+i*3+j)%len(words)]
	}
	return out + "."
}
