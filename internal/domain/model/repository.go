package model

import (
	"fmt"
	"strings"
)

// Repository identifies a GitHub repository by owner and name.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository splits an "owner/name" string. Path-like components such
// as "." and ".." are rejected because both parts are used to build cache
// paths.
func ParseRepository(fullName string) (Repository, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || !validRepoPart(parts[0]) || !validRepoPart(parts[1]) {
		return Repository{}, fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}

// FullName returns the "owner/name" form.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

func validRepoPart(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
