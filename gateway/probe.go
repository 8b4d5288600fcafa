package gateway

import (
	"context"
	"fmt"
	"net/http"

	"weather-proxy/models"
)

// ProbeCity is looked up to check that the credential works
const ProbeCity = "London"

// VerifyKey performs one current-weather lookup and reports whether the
// provider accepted the credential. It only logs; callers decide what to do.
func (g *Gateway) VerifyKey(ctx context.Context) error {
	resp := g.Handle(ctx, models.Current, models.RawQuery{City: ProbeCity})
	if resp.OK() {
		g.logger.Info("API key is valid and working")
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.logger.Error("API key is invalid or not activated yet",
			"hint", "new keys can take up to 2 hours to activate; see https://home.openweathermap.org/api_keys")
	} else {
		g.logger.Warn("API key check failed", "status", resp.StatusCode, "error", resp.Error)
	}
	return fmt.Errorf("key check failed with status %d: %s", resp.StatusCode, resp.Error)
}
