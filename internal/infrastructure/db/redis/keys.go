package redis

import "strings"

// Key layout:
//
//	auth:token:<sid>          access token of a session
//	auth:sessions:<uid>       set of session ids signed in as uid
//	session:<sid>:rashadUser  cached profile of a session
//	auth:<sid>                pub/sub channel for auth events
const (
	profileCacheName = "rashadUser"
	channelPrefix    = "auth:"
	channelPattern   = channelPrefix + "*"
)

func tokenKey(sid string) string { return "auth:token:" + sid }

func userSessionsKey(uid string) string { return "auth:sessions:" + uid }

func profileKey(sid string) string { return "session:" + sid + ":" + profileCacheName }

func eventChannel(sid string) string { return channelPrefix + sid }

// sessionFromChannel extracts the session id from an auth event channel.
func sessionFromChannel(ch string) (string, bool) {
	sid, ok := strings.CutPrefix(ch, channelPrefix)
	if !ok || sid == "" {
		return "", false
	}
	return sid, true
}
