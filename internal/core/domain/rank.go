package domain

// Rank is a label derived purely from an XP total. It is never stored as
// independent state: every ledger credit recomputes it from the new total.
type Rank string

const (
	RankNewbie         Rank = "Newbie"
	RankHelperRecruit  Rank = "Helper Recruit"
	RankActivePeer     Rank = "Active Peer"
	RankCommunityElder Rank = "Community Elder"
	RankKarmicMaster   Rank = "Karmic Master"
)

// rankThresholds is ordered by descending minimum XP. The walk below picks
// the first threshold the total reaches, so totals under the lowest bound
// always fall through to Newbie.
var rankThresholds = []struct {
	MinXP int
	Rank  Rank
}{
	{500, RankKarmicMaster},
	{200, RankCommunityElder},
	{50, RankActivePeer},
	{10, RankHelperRecruit},
	{0, RankNewbie},
}

// RankFor maps an XP total to its rank. Total function: any input, including
// zero, yields a rank.
func RankFor(xpTotal int) Rank {
	for _, t := range rankThresholds {
		if xpTotal >= t.MinXP {
			return t.Rank
		}
	}
	return RankNewbie
}
