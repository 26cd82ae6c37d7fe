package domain

// Team はチーム
type Team struct {
	ID   int
	Name string
}

// User はログイン中のユーザー
type User struct {
	ID    int
	Email string
	Teams []Team
}

// DefaultTeam は最初に所属しているチームを返す
func (u *User) DefaultTeam() (Team, bool) {
	if len(u.Teams) == 0 {
		return Team{}, false
	}
	return u.Teams[0], true
}
