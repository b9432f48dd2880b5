package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkeye/projectchat/internal/auth"
	"github.com/dkeye/projectchat/internal/config"
	"github.com/dkeye/projectchat/internal/domain"
)

var (
	tokenUser   string
	tokenName   string
	tokenAvatar string
	tokenTTL    time.Duration
)

// tokenCmd mints a development identity token signed with auth.secret.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development identity token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		id, err := domain.NewIdentity(tokenUser, tokenName, tokenAvatar)
		if err != nil {
			return err
		}
		tok, err := auth.NewSigner(auth.Config{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer}).Issue(*id, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (required)")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name")
	tokenCmd.Flags().StringVar(&tokenAvatar, "avatar", "", "avatar reference")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}
