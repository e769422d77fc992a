package storage

import "fmt"

// Collection enumerates the stored record kinds.
type Collection int

const (
	Transactions Collection = iota
	CreditCards
	Receivables
)

// Collections returns every collection in migration order.
func Collections() []Collection {
	return []Collection{Transactions, CreditCards, Receivables}
}

// Key is the name of the collection in the local store.
func (c Collection) Key() string {
	switch c {
	case Transactions:
		return "finance-app-transactions"
	case CreditCards:
		return "finance-app-credit-cards"
	case Receivables:
		return "finance-app-receivables"
	default:
		panic(fmt.Sprintf("storage: unknown collection %d", int(c)))
	}
}

// Table is the relational table holding the collection.
func (c Collection) Table() string {
	switch c {
	case Transactions:
		return "transactions"
	case CreditCards:
		return "credit_cards"
	case Receivables:
		return "receivables"
	default:
		panic(fmt.Sprintf("storage: unknown collection %d", int(c)))
	}
}

func (c Collection) String() string {
	switch c {
	case Transactions:
		return "transactions"
	case CreditCards:
		return "creditCards"
	case Receivables:
		return "receivables"
	default:
		return fmt.Sprintf("collection(%d)", int(c))
	}
}
