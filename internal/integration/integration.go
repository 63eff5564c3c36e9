// Package integration produces what an owner needs to put the menu on
// their own website: the embed snippet and a QR code for printed menus.
package integration

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const QRSize = 256

type Embed struct {
	RestaurantID string `json:"restaurantId"`
	ContainerID  string `json:"containerId"`
	ScriptURL    string `json:"scriptUrl"`
	MenuURL      string `json:"menuUrl"`
	Snippet      string `json:"snippet"`
}

// BuildEmbed renders the snippet owners paste into their site. The widget
// script is served from baseURL.
func BuildEmbed(baseURL, restaurantID string) Embed {
	baseURL = strings.TrimRight(baseURL, "/")
	container := "restaurant-menu-" + restaurantID
	script := baseURL + "/embed.js"

	snippet := fmt.Sprintf(`<div id="%s"></div>
<script src="%s"></script>
<script>
  RestaurantMenu.init({
    restaurantId: "%s",
    container: "%s"
  });
</script>`, container, script, restaurantID, container)

	return Embed{
		RestaurantID: restaurantID,
		ContainerID:  container,
		ScriptURL:    script,
		MenuURL:      MenuURL(baseURL, restaurantID),
		Snippet:      snippet,
	}
}

// MenuURL is the public menu endpoint for restaurantID.
func MenuURL(baseURL, restaurantID string) string {
	return strings.TrimRight(baseURL, "/") + "/getMenu?restaurantId=" + url.QueryEscape(restaurantID)
}

// QRTarget prefers the restaurant's own website, which hosts the widget,
// and falls back to the public menu endpoint.
func QRTarget(baseURL, restaurantID, websiteURL string) string {
	if website := strings.TrimSpace(websiteURL); website != "" {
		return website
	}
	return MenuURL(baseURL, restaurantID)
}

// QRCode encodes target as a PNG.
func QRCode(target string, size int) ([]byte, error) {
	if size <= 0 {
		size = QRSize
	}
	return qrcode.Encode(target, qrcode.Medium, size)
}
