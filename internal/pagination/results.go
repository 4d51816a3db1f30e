package pagination

const (
	unitSingular = "result"
	unitPlural   = "results"
)

// Results describes which slice of the full result set is on the current
// page. From and To are 1-based and inclusive; both are 0 when Count is 0.
type Results struct {
	Count     int
	From      int
	To        int
	UnitLabel string
}

// NewResults computes the range shown on currentPage.
func NewResults(total, pageSize, currentPage, totalPages int) Results {
	r := Results{Count: total, UnitLabel: unitPlural}
	if total == 1 {
		r.UnitLabel = unitSingular
	}
	if total == 0 {
		return r
	}

	onPage := pageSize
	if currentPage >= totalPages {
		// A zero remainder means the last page is full.
		if rem := total % pageSize; rem != 0 {
			onPage = rem
		}
	}

	r.From = (currentPage-1)*pageSize + 1
	r.To = r.From + onPage - 1
	return r
}
