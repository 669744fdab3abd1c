package walletkit

// RetryPolicy decides whether a failed connect attempt runs again.
// attempt counts from 1 for the first call.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
}

// RejectionRetry retries attempts the user rejected (code 4001) and nothing
// else. MaxAttempts caps the total number of calls; zero means unbounded,
// which loops forever against a wallet that always rejects.
type RejectionRetry struct {
	MaxAttempts int
}

func (r RejectionRetry) ShouldRetry(err error, attempt int) bool {
	if !IsUserRejected(err) {
		return false
	}
	return r.MaxAttempts <= 0 || attempt < r.MaxAttempts
}

// NoRetry never retries.
type NoRetry struct{}

func (NoRetry) ShouldRetry(error, int) bool { return false }
