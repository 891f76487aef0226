package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"deskcal/internal/auth"
	"deskcal/internal/config"
)

// hashPassword handles the hash-password subcommand. It prints an argon2id
// hash for basic_auth.password_hash, or writes it into the config with -save.
func hashPassword(args []string) int {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	configPath := fs.String("config", config.DefaultPath(), "Path to config file (used with -save)")
	username := fs.String("user", "", "Basic auth username to store with -save")
	save := fs.Bool("save", false, "Write the hash into the config file instead of printing it")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deskcal hash-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Prompts for a password and prints its Argon2id hash.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if *save && *username == "" {
		fmt.Fprintf(os.Stderr, "-save needs -user\n")
		return 2
	}

	password, err := promptPassword(os.Stdin, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		return 1
	}

	if !*save {
		fmt.Println(hash)
		return 0
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	conf.BasicAuth = &config.BasicAuthConfig{Username: *username, PasswordHash: hash}
	if err := conf.Save(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "basic_auth for %q written to %s\n", *username, *configPath)
	return 0
}

// promptPassword reads a password twice without echo. stdin must be a
// terminal.
func promptPassword(stdin *os.File, prompt io.Writer) (string, error) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(prompt, "Enter password:   ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(prompt, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if len(first) == 0 {
		return "", errors.New("password cannot be empty")
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
