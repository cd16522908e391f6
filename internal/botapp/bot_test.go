package botapp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutesMatchMenuCommands(t *testing.T) {
	registered := map[string]bool{}
	for _, r := range routes {
		if strings.HasPrefix(r.pattern, "/") {
			registered[r.pattern] = true
		}
	}
	for _, c := range menuCommands {
		assert.True(t, registered["/"+c.Command], c.Command)
	}
}

func TestLogoutSkipsSessionBootstrap(t *testing.T) {
	for _, r := range routes {
		if r.pattern == "/logout" {
			assert.True(t, r.public)
			return
		}
	}
	t.Fatal("no /logout route")
}
