package dao

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPaymentMethods are the payment methods every installation starts with.
var DefaultPaymentMethods = []PaymentMethod{
	{ID: 1, Name: "Depósito", RequiresEvidence: true, Active: true},
	{ID: 2, Name: "Transferencia", RequiresEvidence: true, Active: true},
	{ID: 3, Name: "Efectivo", RequiresEvidence: false, Active: true},
	{ID: 4, Name: "Cheque", RequiresEvidence: true, Active: true},
}

// activeRequestIndex allows a single active request per ticket book.
const activeRequestIndex = "uni_ticket_book_requests_active_book"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Campaign{},
		&TicketBook{},
		&TicketBookRequest{},
		&PaymentMethod{},
		&RaffleSale{},
		&RaffleSalePayment{},
	)
	if err != nil {
		return err
	}

	err = db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS " + activeRequestIndex +
		" ON ticket_book_requests (ticket_book_id) WHERE active").Error
	if err != nil {
		return err
	}

	return seedPaymentMethods(db)
}

func seedPaymentMethods(db *gorm.DB) error {
	methods := make([]PaymentMethod, len(DefaultPaymentMethods))
	copy(methods, DefaultPaymentMethods)

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&methods).Error
}

func dropAllTables(db *gorm.DB) error {
	// Disable foreign key checks
	db.Exec("SET CONSTRAINTS ALL DEFERRED;")

	// Get all table names
	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public"). // for PostgreSQL, use 'public' schema
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	// Drop all tables
	for _, tableName := range tableNames {
		if err := db.Exec("DROP TABLE IF EXISTS " + tableName + " CASCADE").Error; err != nil {
			return err
		}
	}

	// Re-enable foreign key checks
	db.Exec("SET CONSTRAINTS ALL IMMEDIATE;")

	return nil
}

// ResetTables drops every table of the public schema and migrates again.
func ResetTables(db *gorm.DB) error {
	if err := dropAllTables(db); err != nil {
		return err
	}
	return InitTables(db)
}
