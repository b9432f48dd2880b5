package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"github.com/dkeye/projectchat/internal/config"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/dkeye/projectchat/internal/store"
)

var (
	seedProject string
	seedName    string
	seedOwner   string
	seedMembers []string
)

// seedCmd creates a project with members. Projects are owned by the task
// management side; this is for local development.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a project and its members in the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		db, err := store.Open(cfg.Database.DSN, logger.Warn)
		if err != nil {
			return err
		}
		defer store.Close(db)

		dir := store.NewDirectory(db)
		ctx := cmd.Context()
		pid := domain.ProjectID(seedProject)
		if seedName == "" {
			seedName = seedProject
		}
		if err := dir.CreateProject(ctx, &domain.Project{ID: pid, Name: seedName, OwnerID: domain.UserID(seedOwner)}); err != nil {
			return err
		}
		for _, m := range seedMembers {
			if err := dir.AddMember(ctx, pid, domain.UserID(m)); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "project %s created with %d members\n", pid, len(seedMembers))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedProject, "project", "", "project id (required)")
	seedCmd.Flags().StringVar(&seedName, "name", "", "project display name")
	seedCmd.Flags().StringVar(&seedOwner, "owner", "", "owner user id (required)")
	seedCmd.Flags().StringSliceVar(&seedMembers, "member", nil, "member user id, repeatable")
	_ = seedCmd.MarkFlagRequired("project")
	_ = seedCmd.MarkFlagRequired("owner")
}
