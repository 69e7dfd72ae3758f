// Package main provides the HRChat CLI application entry point.
// HRChat is a terminal client for the company HR assistant: it signs the
// employee in, keeps their conversations, and answers HR policy questions.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"hrchat/internal/api"
	"hrchat/internal/config"
	"hrchat/internal/logger"
	"hrchat/internal/shell"
	"hrchat/internal/version"
)

var (
	logLevel string
	logFile  string
	testMode bool
)

// rootCmd starts the interactive chat shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "hrchat",
	Short: "HRChat - terminal client for the HR assistant",
	Long: `HRChat is a terminal client for the company HR assistant.
It keeps your conversations on the HR chat service and answers policy
questions through the HR knowledge base.`,
	RunE: runChat,
}

var chatCmd = &cobra.Command{
	Use:   "chat [conversation-id]",
	Short: "Start the interactive chat shell",
	Long: `Start the interactive HRChat shell (the default when no subcommand is
given). With a conversation id, that conversation is opened right away.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an HRChat account with your corporate email address.
A one-time code is sent to the address; confirm it with "hrchat verify-otp".`,
	RunE: runRegister,
}

var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp",
	Short: "Confirm the one-time code sent to your email",
	RunE:  runVerifyOTP,
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset email",
	RunE:  runForgotPassword,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password using the token from the reset email",
	Args:  cobra.ExactArgs(1),
	RunE:  runResetPassword,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("test-mode", rootCmd.PersistentFlags().Lookup("test-mode")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding test-mode flag: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(verifyOTPCmd)
	rootCmd.AddCommand(forgotPasswordCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds the runtime configuration and configures logging from it
// plus the CLI flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	level := logLevel
	if level == "" {
		level = cfg.LogLevel()
	}
	file := logFile
	if file == "" {
		file = cfg.LogFile()
	}
	if err := logger.Configure(level, file, testMode); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("Starting HRChat", "version", version.Version)

	sh, err := shell.New(cfg, testMode)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		sh.OpenOnStart(args[0])
	}
	cmd.SilenceUsage = true
	return sh.Run(context.Background())
}

func runRegister(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	email, err := promptLine("Corporate email: ")
	if err != nil {
		return err
	}
	if err := api.ValidateEmailDomain(email, cfg.AllowedDomains()); err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if err := api.ValidatePassword(password); err != nil {
		return err
	}

	auth := api.NewAuthClient(cfg.StoreURL())
	msg, err := auth.Register(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Println(msg)
	fmt.Println("Check your inbox for the one-time code, then run: hrchat verify-otp")
	return nil
}

func runVerifyOTP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	email, err := promptLine("Corporate email: ")
	if err != nil {
		return err
	}
	otp, err := promptLine("One-time code: ")
	if err != nil {
		return err
	}

	auth := api.NewAuthClient(cfg.StoreURL())
	msg, err := auth.VerifyAccountOTP(context.Background(), email, otp)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	fmt.Println(msg)
	return nil
}

func runForgotPassword(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	email, err := promptLine("Corporate email: ")
	if err != nil {
		return err
	}

	auth := api.NewAuthClient(cfg.StoreURL())
	msg, err := auth.ForgotPassword(context.Background(), email)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	fmt.Println(msg)
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	newPassword, err := promptPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if err := api.ValidatePasswordReset(newPassword, confirm); err != nil {
		return err
	}

	auth := api.NewAuthClient(cfg.StoreURL())
	msg, err := auth.ResetPassword(context.Background(), args[0], newPassword)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println(msg)
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
