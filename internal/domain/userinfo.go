package domain

import "strings"

const userPassDelimiter = ":"

// UserInfo is the "user[:password]" part of an authority. An empty password
// is the same as no password.
type UserInfo struct {
	user     string
	password string
}

func NewUserInfo(user, password string) UserInfo {
	return UserInfo{user: user, password: password}
}

// UserInfoFromString splits "user:password" on the first delimiter.
func UserInfoFromString(userInfo string) UserInfo {
	user, password, _ := strings.Cut(userInfo, userPassDelimiter)
	return UserInfo{user: user, password: password}
}

func (ui UserInfo) User() string {
	return ui.user
}

func (ui UserInfo) Password() (string, bool) {
	return ui.password, ui.password != ""
}

func (ui UserInfo) String() string {
	if ui.password == "" {
		return ui.user
	}
	return ui.user + userPassDelimiter + ui.password
}
