package tokenstore

// TokenKey is the single fixed key the bearer token lives under.
const TokenKey = "token"

// Store persists the bearer token between runs. Get returns an empty string
// and no error when nothing is stored.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}
