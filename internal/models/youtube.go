package models

import (
	"net/url"
	"strings"
)

// YouTubeID извлекает идентификатор ролика из ссылки youtube.com/youtu.be.
func YouTubeID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(u.Host, "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
			if id, ok := strings.CutPrefix(u.Path, prefix); ok {
				return strings.Trim(id, "/")
			}
		}
	}
	return ""
}
