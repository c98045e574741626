package main

import (
	"github.com/miat-mn/action-log/internal/database"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/services"
	"github.com/miat-mn/action-log/internal/validation"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and seed admin roles",
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		if err := database.Migrate(db); err != nil {
			return err
		}
		return printf(cmd, "schema migrated\n")
	}),
}

var adminFlags struct {
	email, password, firstName, lastName, role, position string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user with an admin role, or change an existing admin's role",
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		role, err := models.ParseRole(adminFlags.role)
		if err != nil {
			return err
		}
		admin, err := services.NewAdminService(db).Create(cmd.Context(), services.CreateAdminParams{
			Email:     adminFlags.email,
			Password:  adminFlags.password,
			FirstName: adminFlags.firstName,
			LastName:  adminFlags.lastName,
			Role:      role,
			Position:  adminFlags.position,
		})
		if err != nil {
			return err
		}
		return printf(cmd, "admin %d (%s) is %s\n", admin.ID, admin.User.Email, admin.RoleID)
	}),
}

var hazardTypeFlags dto.CreateHazardTypeRequest

var createHazardTypeCmd = &cobra.Command{
	Use:   "create-hazard-type",
	Short: "Add a hazard type",
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		if err := validation.Struct(&hazardTypeFlags); err != nil {
			return err
		}
		ht, err := services.NewHazardTypeService(db).Create(cmd.Context(), &hazardTypeFlags)
		if err != nil {
			return err
		}
		return printf(cmd, "hazard type %d %s (private=%t)\n", ht.ID, ht.ShortCode, ht.IsPrivate)
	}),
}

var locationFlags dto.CreateLocationRequest

var createLocationCmd = &cobra.Command{
	Use:   "create-location",
	Short: "Add a location",
	RunE: withDB(func(cmd *cobra.Command, db *gorm.DB) error {
		if err := validation.Struct(&locationFlags); err != nil {
			return err
		}
		loc, err := services.NewLocationService(db).Create(cmd.Context(), &locationFlags)
		if err != nil {
			return err
		}
		return printf(cmd, "location %d %s\n", loc.ID, loc.Name)
	}),
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "admin email")
	f.StringVar(&adminFlags.password, "password", "", "password for a new user (at least 8 characters)")
	f.StringVar(&adminFlags.firstName, "first-name", "", "first name")
	f.StringVar(&adminFlags.lastName, "last-name", "", "last name")
	f.StringVar(&adminFlags.role, "role", "admin", "role name or id, e.g. super-admin or 6")
	f.StringVar(&adminFlags.position, "position", "", "job title")
	_ = createAdminCmd.MarkFlagRequired("email")

	f = createHazardTypeCmd.Flags()
	f.StringVar(&hazardTypeFlags.Name, "name", "", "display name")
	f.StringVar(&hazardTypeFlags.ShortCode, "code", "", "short code used in hazard codes, e.g. FIRE")
	f.BoolVar(&hazardTypeFlags.IsPrivate, "private", false, "restrict hazards of this type to special admins and owners")
	_ = createHazardTypeCmd.MarkFlagRequired("name")
	_ = createHazardTypeCmd.MarkFlagRequired("code")

	f = createLocationCmd.Flags()
	f.StringVar(&locationFlags.Name, "name", "", "location name")
	f.StringVar(&locationFlags.GroupName, "group", "", "location group, e.g. an airport")
	_ = createLocationCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(migrateCmd, createAdminCmd, createHazardTypeCmd, createLocationCmd)
}
