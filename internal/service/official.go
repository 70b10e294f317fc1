package service

import "strings"

// DefaultOfficialChannels lists name fragments of channels operated by OTT
// platforms and broadcasters. A channel containing any fragment
// (case-insensitively) is treated as an official publisher, which boosts
// both match confidence and popularity weight.
func DefaultOfficialChannels() []string {
	return []string{
		"netflix", "넷플릭스",
		"disney plus", "디즈니",
		"tving", "티빙",
		"wavve", "웨이브",
		"coupang play", "쿠팡플레이",
		"watcha", "왓챠",
		"apple tv",
		"tvn", "jtbc", "sbs", "kbs", "mbc", "ena",
	}
}

// isOfficialChannel matches a channel name against allow-list fragments by
// case-insensitive containment, so "Netflix Korea 넷플릭스" matches "netflix".
func isOfficialChannel(channelName string, patterns []string) bool {
	if channelName == "" {
		return false
	}
	name := strings.ToLower(channelName)
	for _, p := range patterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
