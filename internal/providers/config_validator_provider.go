package providers

import (
	"errors"

	"github.com/gookit/validate"

	"zapperd/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks the struct tags and the backend-specific rules the
// tags cannot express. Missing relay credentials are a configuration
// error surfaced here, before the daemon starts serving.
func (v *CnfValidator) Validate() error {
	vd := validate.Struct(v.conf)
	if !vd.Validate() {
		return vd.Errors.OneError()
	}

	switch v.conf.Relay.Backend {
	case "cloudflare":
		cf := v.conf.Relay.Cloudflare
		if cf.Account == "" || cf.Namespace == "" || cf.Token == "" {
			return errors.New("relay backend cloudflare requires account, namespace and token")
		}
	case "redis":
		if v.conf.Relay.Redis.Addr == "" {
			return errors.New("relay backend redis requires an address")
		}
	case "memory":
		if v.conf.Relay.CacheSize <= 0 {
			return errors.New("relay backend memory requires a positive cacheSize")
		}
	}

	return nil
}
