package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/onboarding/internal/client/api"
	"github.com/atinyakov/onboarding/internal/client/wizard"
	"github.com/atinyakov/onboarding/internal/models"
)

var (
	version   string
	buildDate string
)

// pollInterval is how often the admin user list refreshes.
const pollInterval = 5 * time.Second

// repl runs the interactive shell loop driving the wizard and admin views.
func repl(ctx context.Context, session *wizard.Session, controller *wizard.Controller,
	store *wizard.ConfigStore, users *wizard.UserList) {

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("onboarding> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, status, register, next, back, reset, record,")
			fmt.Println("  users, select <id>, delete <id>, config, toggle <page> <field>,")
			fmt.Println("  required <field> <on|off>, commit, exit")
		case "status":
			printStatus(session)
		case "register":
			doRegister(ctx, scanner, session)
		case "next":
			doAdvance(ctx, scanner, session, controller, store)
		case "back":
			if err := controller.Retreat(); err != nil {
				fmt.Println(err)
			} else {
				fmt.Printf("Now at step %d\n", session.Step())
			}
		case "reset":
			session.Reset()
			fmt.Println("Session reset")
		case "record":
			b, _ := json.MarshalIndent(session.Record(), "", "  ")
			fmt.Println(string(b))
		case "users":
			users.Refresh(ctx)
			printUsers(users)
		case "select":
			if len(args) < 2 {
				fmt.Println("Usage: select <id>")
				continue
			}
			users.Select(args[1])
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := users.Delete(ctx, args[1]); err != nil {
				fmt.Println("Delete failed:", err)
			} else {
				fmt.Println("User deleted")
			}
		case "config":
			printConfig(store)
		case "toggle":
			if len(args) < 3 {
				fmt.Println("Usage: toggle <page> <field>")
				continue
			}
			doToggle(store, args[1], args[2])
		case "required":
			if len(args) < 3 {
				fmt.Println("Usage: required <field> <on|off>")
				continue
			}
			doRequired(ctx, store, args[1], args[2])
		case "commit":
			doCommit(ctx, store)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func printStatus(session *wizard.Session) {
	id := session.Identity()
	if id == "" {
		id = "(not registered)"
	}
	fmt.Printf("Identity: %s\nStep: %d\n", id, session.Step())
	if msg := session.Err(); msg != "" {
		fmt.Println("Error:", msg)
	}
	for field, msg := range session.ValidationErrors() {
		fmt.Printf("  %s: %s\n", field, msg)
	}
}

func doRegister(ctx context.Context, scanner *bufio.Scanner, session *wizard.Session) {
	var reg models.Registration
	fmt.Print("Username: ")
	scanner.Scan()
	reg.Username = strings.TrimSpace(scanner.Text())
	fmt.Print("Email: ")
	scanner.Scan()
	reg.Email = strings.TrimSpace(scanner.Text())
	fmt.Print("Password: ")
	scanner.Scan()
	reg.Password = scanner.Text()
	fmt.Print("Age: ")
	scanner.Scan()
	reg.Age, _ = strconv.Atoi(strings.TrimSpace(scanner.Text()))

	if err := session.Register(ctx, reg); err != nil {
		printStatus(session)
		return
	}
	fmt.Printf("Registered as %s, now at step %d\n", session.Identity(), session.Step())
}

func doAdvance(ctx context.Context, scanner *bufio.Scanner, session *wizard.Session,
	controller *wizard.Controller, store *wizard.ConfigStore) {

	step := session.Step()
	switch {
	case step == models.StepRegistration:
		fmt.Println("Use 'register' to complete the first step")
		return
	case step == models.StepComplete:
		fmt.Println("Onboarding is already complete")
		return
	}

	pending := models.OnboardingRecord{}
	for _, def := range store.FieldsForPage(step) {
		pending[def.ID] = wizard.PromptField(scanner, def)
	}

	if err := controller.Advance(ctx, pending); err != nil {
		printStatus(session)
		return
	}
	if session.Step() == models.StepComplete {
		fmt.Println("Onboarding complete!")
		return
	}
	fmt.Printf("Now at step %d\n", session.Step())
}

func printUsers(users *wizard.UserList) {
	if msg := users.Err(); msg != "" {
		fmt.Println(msg)
		return
	}
	list := users.Users()
	if len(list) == 0 {
		fmt.Println("No users yet")
		return
	}
	fmt.Printf("%-22s %-16s %-24s %-4s %s\n", "ID", "USERNAME", "EMAIL", "AGE", "STEP")
	for _, u := range list {
		marker := " "
		if u.ID == users.Selected() {
			marker = "*"
		}
		fmt.Printf("%s%-21s %-16s %-24s %-4d %d\n", marker, u.ID, u.Username, u.Email, u.Age, u.CurrentStep)
	}
}

func printConfig(store *wizard.ConfigStore) {
	cfg := store.Config()
	if cfg == nil {
		fmt.Println("Configuration not yet available")
		return
	}
	b, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Println(string(b))
}

// editor holds the admin draft between toggle/required/commit commands.
var editor *wizard.AdminEditor

func ensureEditor(store *wizard.ConfigStore) bool {
	if editor != nil {
		return true
	}
	e, err := wizard.NewAdminEditor(store)
	if err != nil {
		fmt.Println(err)
		return false
	}
	editor = e
	return true
}

func doToggle(store *wizard.ConfigStore, pageArg, field string) {
	if !ensureEditor(store) {
		return
	}
	page, err := strconv.Atoi(pageArg)
	if err != nil {
		fmt.Println("Page must be a number")
		return
	}
	if !editor.ToggleField(page, field) {
		fmt.Println(editor.Message())
		return
	}
	draft := editor.Draft()
	fmt.Printf("Page %d: %s\n", page, strings.Join(draft.Fields(page), ", "))
}

func doRequired(ctx context.Context, store *wizard.ConfigStore, field, mode string) {
	if !ensureEditor(store) {
		return
	}
	editor.SetRequired(field, mode == "on")
	fmt.Printf("%s required: %v\n", field, mode == "on")
}

func doCommit(ctx context.Context, store *wizard.ConfigStore) {
	if editor == nil {
		fmt.Println("Nothing to commit")
		return
	}
	if err := editor.Commit(ctx); err != nil {
		fmt.Println("Commit failed:", err)
		return
	}
	fmt.Println("Configuration saved")
}

// main parses command-line flags and starts the interactive wizard shell.
func main() {
	var (
		baseURL      string
		identityPath string
		showVer      bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&identityPath, "identity", "identity.json", "path to the stored identity file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Onboarding Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	ctx := context.Background()
	client := api.New(baseURL)
	idFile := &wizard.IdentityFile{Path: identityPath}

	session := wizard.NewSession(client, idFile)
	store := wizard.NewConfigStore(client)
	controller := wizard.NewController(session, store)
	users := wizard.NewUserList(client)

	if err := store.Load(ctx); err != nil {
		fmt.Println("Warning: configuration not yet available:", err)
	}
	session.Initialize(ctx)
	users.StartPolling(ctx, pollInterval)

	if msg := session.Err(); msg != "" {
		fmt.Println(msg)
	}
	fmt.Printf("Resumed at step %d. Type 'help' for commands.\n", session.Step())

	repl(ctx, session, controller, store, users)
}
