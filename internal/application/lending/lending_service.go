package lending

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/librarian/backend/internal/domain/catalog"
	"github.com/librarian/backend/internal/domain/lending"
	"github.com/librarian/backend/internal/domain/member"
	"github.com/librarian/backend/internal/domain/shared"
)

// LendingService handles the issue and return workflow.
// All mutations run inside a transaction scope so the stock, debt and ledger
// writes commit or roll back as one unit.
type LendingService struct {
	scope           TransactionScope
	transactionRepo lending.TransactionRepository
	eventBus        shared.EventPublisher
}

// NewLendingService creates a new LendingService
func NewLendingService(
	scope TransactionScope,
	transactionRepo lending.TransactionRepository,
	eventBus shared.EventPublisher,
) *LendingService {
	return &LendingService{
		scope:           scope,
		transactionRepo: transactionRepo,
		eventBus:        eventBus,
	}
}

// Issue lends a book to a member.
// Preconditions are checked in order: the book exists, it has stock left,
// the member exists, the member is below the debt limit, and the member does
// not already hold an open loan for this book.
func (s *LendingService) Issue(ctx context.Context, req IssueBookRequest) (*TransactionResponse, error) {
	if req.BookID == uuid.Nil || req.MemberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Please provide both book ID and member ID")
	}

	var (
		tx   *lending.Transaction
		book *catalog.Book
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		book, err = repos.BookRepo().FindByID(ctx, req.BookID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Book not found")
			}
			return err
		}

		if err := book.DecrementStock(); err != nil {
			return err
		}

		m, err := repos.MemberRepo().FindByID(ctx, req.MemberID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Member not found")
			}
			return err
		}

		if !m.CanBorrow() {
			return member.ErrDebtLimitReached
		}

		_, err = repos.TransactionRepo().FindIssued(ctx, req.BookID, req.MemberID)
		if err == nil {
			return lending.ErrAlreadyIssued
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		tx, err = lending.NewTransaction(req.BookID, req.MemberID, time.Now())
		if err != nil {
			return err
		}

		// Conditional stock write; a concurrent issue of the last copy
		// loses here and the whole unit rolls back
		if err := repos.BookRepo().SaveWithVersion(ctx, book); err != nil {
			return err
		}
		return repos.TransactionRepo().Save(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, append(book.GetDomainEvents(), tx.GetDomainEvents()...))
	book.ClearDomainEvents()
	tx.ClearDomainEvents()

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Return closes a loan. The fee is the ceiling-rounded number of elapsed days
// times the book's daily rent; if charging it would push the member past the
// debt limit the whole return is rejected and nothing changes.
func (s *LendingService) Return(ctx context.Context, transactionID uuid.UUID, req ReturnBookRequest) (*ReturnBookResponse, error) {
	returnDate := time.Now()
	if req.ReturnDate != nil {
		returnDate = *req.ReturnDate
	}

	var (
		tx       *lending.Transaction
		book     *catalog.Book
		m        *member.Member
		response ReturnBookResponse
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		tx, err = repos.TransactionRepo().FindByID(ctx, transactionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Transaction not found")
			}
			return err
		}
		if tx.IsReturned() {
			return lending.ErrAlreadyReturned
		}

		book, err = repos.BookRepo().FindByID(ctx, tx.BookID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Book not found")
			}
			return err
		}

		// Fresh debt read inside the transaction, not a value cached
		// earlier in the request
		m, err = repos.MemberRepo().FindByID(ctx, tx.MemberID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("NOT_FOUND", "Member not found")
			}
			return err
		}

		days := lending.DaysBorrowed(tx.IssueDate, returnDate)
		fee := lending.ComputeRentFee(tx.IssueDate, returnDate, book.RentPerDay)

		if err := m.AddDebt(fee); err != nil {
			return err
		}
		if err := tx.MarkReturned(returnDate, fee); err != nil {
			return err
		}
		book.IncrementStock()

		if err := repos.MemberRepo().SaveWithVersion(ctx, m); err != nil {
			return err
		}
		if err := repos.BookRepo().SaveWithVersion(ctx, book); err != nil {
			return err
		}
		if err := repos.TransactionRepo().SaveWithVersion(ctx, tx); err != nil {
			return err
		}

		response = ReturnBookResponse{
			Transaction:     ToTransactionResponse(tx),
			DaysBorrowed:    days,
			RentFee:         fee,
			OutstandingDebt: m.OutstandingDebt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := append(m.GetDomainEvents(), book.GetDomainEvents()...)
	events = append(events, tx.GetDomainEvents()...)
	s.publishEvents(ctx, events)
	m.ClearDomainEvents()
	book.ClearDomainEvents()
	tx.ClearDomainEvents()

	return &response, nil
}

// ListAll lists all loans newest first with book and member fields denormalized
func (s *LendingService) ListAll(ctx context.Context, page, limit int) (*shared.Paginated[lending.TransactionDetail], error) {
	filter := listFilter(page, limit)

	details, err := s.transactionRepo.FindAllDetailed(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(details, total, filter.Page, filter.Limit)
	return &result, nil
}

// ListByMember lists a member's loans newest first
func (s *LendingService) ListByMember(ctx context.Context, memberID uuid.UUID, page, limit int) (*shared.Paginated[lending.TransactionDetail], error) {
	filter := listFilter(page, limit)

	details, err := s.transactionRepo.FindByMemberDetailed(ctx, memberID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.CountByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(details, total, filter.Page, filter.Limit)
	return &result, nil
}

func (s *LendingService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	_ = s.eventBus.Publish(ctx, events...)
}

// listFilter normalizes pagination input to a filter
func listFilter(page, limit int) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if limit > 0 {
		filter.Limit = limit
	}
	return filter
}
