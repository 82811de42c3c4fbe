package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yigit/attendance/internal/app/migrations"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/app/repositories"
	"github.com/yigit/attendance/internal/app/services"
	"github.com/yigit/attendance/internal/bootstrap"
	"github.com/yigit/attendance/internal/db"
	"github.com/yigit/attendance/internal/seed"
	"github.com/yigit/attendance/internal/server"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptyPassword = errors.New("password must not be empty")
)

type schemaMigrator interface {
	Run(ctx context.Context) error
}

type userAdmin interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (int64, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	SeedDefaultUsers(ctx context.Context) error
}

type commandLine struct {
	migrator schemaMigrator
	users    userAdmin
	out      io.Writer
	close    func()
}

// connect opens the database on first use; tests inject their own dependencies
func (cl *commandLine) connect(c *cli.Context) error {
	if cl.users != nil && cl.migrator != nil {
		return nil
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	policy := db.RetryPolicy{MaxAttempts: cfg.Database.ConnectAttempts, Step: cfg.ConnectRetryStep()}
	if err := db.NewSupervisor(database, policy, lgr).Connect(c.Context); err != nil {
		database.Close()
		return fmt.Errorf("database unavailable: %w", err)
	}

	repos := repositories.NewRepositories(database)
	cl.users = services.NewUserService(repos.UserRepository, lgr)
	cl.migrator = migrations.NewMigrator(database, lgr)
	cl.close = database.Close
	return nil
}

func (cl *commandLine) app() *cli.App {
	return &cli.App{
		Name:      "admin",
		Usage:     "maintenance tasks for the attendance database",
		Writer:    cl.out,
		ErrWriter: cl.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   server.DefaultConfigPath,
				Usage:   "path to the YAML configuration",
			},
		},
		After: func(*cli.Context) error {
			if cl.close != nil {
				cl.close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create and upgrade the schema",
				Before: cl.connect,
				Action: cl.migrate,
			},
			{
				Name:   "seed",
				Usage:  "upsert the default admin, teacher and student accounts",
				Before: cl.connect,
				Action: cl.seed,
			},
			{
				Name:   "list-users",
				Usage:  "print every account",
				Before: cl.connect,
				Action: cl.listUsers,
			},
			{
				Name:   "add-user",
				Usage:  "create an account; the password is prompted",
				Before: cl.connect,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "role", Value: string(models.RoleStudent), Usage: "admin, teacher or student"},
					&cli.StringFlag{Name: "course"},
					&cli.StringFlag{Name: "section"},
					&cli.StringFlag{Name: "year-level"},
				},
				Action: cl.addUser,
			},
		},
	}
}

func (cl *commandLine) migrate(c *cli.Context) error {
	if err := cl.migrator.Run(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(cl.out, "Schema is up to date")
	return nil
}

func (cl *commandLine) seed(c *cli.Context) error {
	if err := cl.users.SeedDefaultUsers(c.Context); err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "Default users ready, password %q\n", seed.DefaultPassword)
	return nil
}

func (cl *commandLine) listUsers(c *cli.Context) error {
	users, err := cl.users.ListUsers(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cl.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tCLASS")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, classOf(u))
	}
	return w.Flush()
}

func (cl *commandLine) addUser(c *cli.Context) error {
	fmt.Fprint(cl.out, "Enter password: ")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cl.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		return errEmptyPassword
	}

	req := &dto.CreateUserRequest{
		Name:             c.String("name"),
		Email:            c.String("email"),
		Password:         string(pwd),
		Role:             models.Role(c.String("role")),
		Course:           optionalFlag(c, "course"),
		Section:          optionalFlag(c, "section"),
		StudentYearLevel: optionalFlag(c, "year-level"),
	}
	id, err := cl.users.CreateUser(c.Context, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cl.out, "Created %s %d\n", req.Role, id)
	return nil
}

func optionalFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

// classOf summarizes a student's class or a teacher's assigned courses
func classOf(u *models.User) string {
	if u.Role == models.RoleStudent {
		var parts []string
		for _, p := range []*string{u.Course, u.StudentYearLevel, u.Section} {
			if p != nil && *p != "" {
				parts = append(parts, *p)
			}
		}
		return strings.Join(parts, " ")
	}
	return strings.Join(u.Courses, ",")
}
