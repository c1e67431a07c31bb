package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Tal3a{},
		&Participant{},
		&WaitlistEntry{},
		&Review{},
		&AdminRequest{},
		&Owner{},
		&GroupAdmin{},
	)
}
