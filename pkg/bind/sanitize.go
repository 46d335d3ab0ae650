package bind

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

// sanitize runs markup through the configured policy. Without one the markup
// is written as given.
func (b *Binder) sanitize(markup string) string {
	if b.policy == nil || markup == "" {
		return markup
	}
	return b.policy.Sanitize(markup)
}

func defaultPolicy() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowDataAttributes()
		policy.AllowAttrs("role").Matching(regexp.MustCompile(`^[a-z]+$`)).Globally()
		htmlPolicy = policy
	})
	return htmlPolicy
}
