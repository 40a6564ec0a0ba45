package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	assignmentdomain "github.com/openjass/aquanet/internal/assignment/domain"
	organizationdomain "github.com/openjass/aquanet/internal/organization/domain"
	transferdomain "github.com/openjass/aquanet/internal/transfer/domain"
	waterboxdomain "github.com/openjass/aquanet/internal/waterbox/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultOrgName     = "JASS Principal"
	defaultOrgCurrency = "S/"
)

// EnsureSchema creates the core tables through AutoMigrate for dialects the
// SQL migrations do not cover (sqlite, mysql).
func EnsureSchema(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if err := db.AutoMigrate(
		&organizationdomain.Organization{},
		&waterboxdomain.WaterBox{},
		&assignmentdomain.Assignment{},
		&transferdomain.Transfer{},
	); err != nil {
		return err
	}

	// One active assignment per water box. MySQL has no partial indexes, so
	// there the service-level transaction is the only guard.
	if db.Dialector.Name() != "mysql" {
		return db.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS assignments_active_box_key ON assignments (org_id, water_box_id) WHERE status = 'ACTIVE'",
		).Error
	}
	return nil
}

// EnsureMainOrg seeds the default organization for startup bootstrap.
func EnsureMainOrg(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureMainOrgTx(ctx, tx, node.Generate())
		return err
	})
}

// EnsureMainOrgWithID seeds the default organization under a fixed ID.
func EnsureMainOrgWithID(db *gorm.DB, orgID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureMainOrgTx(ctx, tx, snowflake.ID(orgID))
		return err
	})
}

func ensureMainOrgTx(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("name = ?", defaultOrgName).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        id,
		Name:      defaultOrgName,
		Currency:  defaultOrgCurrency,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
