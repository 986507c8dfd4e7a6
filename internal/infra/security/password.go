package security

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes and verifies the shared admin token. The service only
// ever stores the bcrypt hash (ADMIN_TOKEN_HASH); Hash exists for
// provisioning a new token out of band.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(token string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(token), h.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hash, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
}

func (h BcryptHasher) cost() int {
	if h.Cost >= bcrypt.MinCost && h.Cost <= bcrypt.MaxCost {
		return h.Cost
	}
	return bcrypt.DefaultCost
}
