package ghclient

import (
	"strings"

	vcsurl "github.com/gitsight/go-vcsurl"
)

// SplitRepoURL extracts owner and repository name from a repository URL. API
// URLs carry a /repos/ segment; anything else goes through the generic VCS
// URL parser.
func SplitRepoURL(u string) (owner, name string, err error) {
	if i := strings.Index(u, "/repos/"); i >= 0 {
		parts := strings.Split(strings.Trim(u[i+len("/repos/"):], "/"), "/")
		if len(parts) >= 2 {
			return parts[0], parts[1], nil
		}
	}
	info, err := vcsurl.Parse(u)
	if err != nil {
		return "", "", err
	}
	return info.Username, info.Name, nil
}
