package dao

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrTicketBookNotFound     = errors.New("book or active request not found")
	ErrTicketBookRequestFound = errors.New("ticket book already has an active request")
	ErrRequestNotFound        = errors.New("ticket book request not found")
	ErrSaleNotFound           = errors.New("raffle sale not found")
	ErrSaleStillActive        = errors.New("raffle sale must be deactivated before it is purged")
	ErrSaleConflict           = errors.New("raffle sale was modified concurrently")
	ErrInsufficientTickets    = errors.New("insufficient tickets available")
	ErrPaymentMethodNotFound  = errors.New("payment method not found")
)

// InsufficientTicketsError is returned when a sale asks for more tickets than
// the book has left. It matches ErrInsufficientTickets with errors.Is.
type InsufficientTicketsError struct {
	TicketBookID uint
	Remaining    int
	Requested    int
}

func (e *InsufficientTicketsError) Error() string {
	return fmt.Sprintf("insufficient tickets available: ticket book %d has %d remaining, %d requested", e.TicketBookID, e.Remaining, e.Requested)
}

func (e *InsufficientTicketsError) Is(target error) bool {
	return target == ErrInsufficientTickets
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// isUniqueViolation reports whether err was raised by the named unique
// constraint or index. SQLite errors do not carry the name, only the columns.
func isUniqueViolation(err error, constraint, columns string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed: "+columns)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ForeignKeyViolation
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
