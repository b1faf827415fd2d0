package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/koassets/rights-backend/internal/rights"
	"github.com/koassets/rights-backend/internal/store"
	"gopkg.in/yaml.v3"
)

type SeedData struct {
	Users []User `yaml:"users"`
}

type User struct {
	Email       string   `yaml:"email"`
	Permissions []string `yaml:"permissions"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return errors.New("command required")
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		return seedCommand(args)
	case "nuke":
		return nukeCommand(args)
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func seedCommand(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	file := fs.String("file", "", "YAML roster file to seed from")
	dir := fs.String("dir", "", "Directory of YAML roster files to seed from")
	dryRun := fs.Bool("dry-run", false, "Validate files without writing to the store")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	files, err := resolveFiles(*file, *dir)
	if err != nil {
		return err
	}

	seedData, err := loadSeedData(files)
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}

	if *dryRun {
		fmt.Println("dry run: validating roster data")
		return validateSeedData(seedData)
	}

	if err := validateSeedData(seedData); err != nil {
		return err
	}

	cfg := config.Load()
	recordStore, err := store.NewFromConfig(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("store connection failed: %w", err)
	}
	defer recordStore.Close()

	fmt.Printf("seeding roster from %d file(s)\n", len(files))
	return applySeedData(context.Background(), recordStore, seedData)
}

func nukeCommand(args []string) error {
	fs := flag.NewFlagSet("nuke", flag.ExitOnError)
	force := fs.Bool("force", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if !*force && !confirmNuke() {
		fmt.Println("operation cancelled")
		return nil
	}

	cfg := config.Load()
	recordStore, err := store.NewFromConfig(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("store connection failed: %w", err)
	}
	defer recordStore.Close()

	return nukeRoster(context.Background(), recordStore)
}

func resolveFiles(file, dir string) ([]string, error) {
	if file == "" && dir == "" {
		return nil, errors.New("must specify either --file or --dir")
	}

	if file != "" && dir != "" {
		return nil, errors.New("cannot specify both --file and --dir")
	}

	if file != "" {
		return []string{file}, nil
	}

	return findYAMLFiles(dir)
}

func findYAMLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && isYAMLFile(path) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no YAML files found in directory: %s", dir)
	}

	return files, nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func loadSeedData(files []string) (*SeedData, error) {
	combined := &SeedData{}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}

		var fileData SeedData
		if err := yaml.Unmarshal(data, &fileData); err != nil {
			return nil, fmt.Errorf("failed to parse YAML in %s: %w", file, err)
		}

		combined.Users = append(combined.Users, fileData.Users...)
	}

	return combined, nil
}

func validateSeedData(data *SeedData) error {
	if len(data.Users) == 0 {
		return errors.New("no users found in seed data")
	}

	known := map[string]bool{
		rights.TokenReviewer:       true,
		rights.TokenSeniorReviewer: true,
		rights.TokenManager:        true,
		rights.TokenReportsAdmin:   true,
		rights.AliasReviewer:       true,
		rights.AliasManager:        true,
	}

	seen := make(map[string]bool)
	for _, u := range data.Users {
		email := review.NormalizeEmail(u.Email)
		if email == "" || !strings.Contains(email, "@") {
			return fmt.Errorf("invalid email: %q", u.Email)
		}
		if seen[email] {
			return fmt.Errorf("duplicate email: %s", email)
		}
		seen[email] = true

		for _, p := range u.Permissions {
			if !known[p] {
				return fmt.Errorf("user %s has unknown permission token %q", email, p)
			}
		}
	}

	fmt.Printf("validated %d user(s)\n", len(data.Users))
	return nil
}

func applySeedData(ctx context.Context, recordStore *store.RecordStore, data *SeedData) error {
	for _, u := range data.Users {
		user := &review.RosterUser{
			Email:       review.NormalizeEmail(u.Email),
			Permissions: rights.Normalize(u.Permissions),
		}
		if err := recordStore.PutUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.Email, err)
		}
		fmt.Printf("  seeded %s %v\n", user.Email, user.Permissions)
	}

	fmt.Printf("seeded %d user(s)\n", len(data.Users))
	return nil
}

func nukeRoster(ctx context.Context, recordStore *store.RecordStore) error {
	users, err := recordStore.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		if err := recordStore.DeleteUser(ctx, u.Email); err != nil {
			return fmt.Errorf("failed to delete user %s: %w", u.Email, err)
		}
	}

	fmt.Printf("removed %d user(s)\n", len(users))
	return nil
}

func confirmNuke() bool {
	fmt.Print("This removes every roster user. Type 'yes' to continue: ")
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(answer) == "yes"
}

func printUsage() {
	fmt.Println(`Usage: seeder <command> [flags]

Commands:
  seed   Write roster users from YAML files into the store
           --file <path>   single YAML file
           --dir <path>    directory of YAML files
           --dry-run       validate without writing
  nuke   Remove every roster user
           --force         skip confirmation
  help   Show this message`)
}
