package repo

import (
	"fmt"
	"strings"

	"github.com/Dayy346/fantasy-draft-assistant/internal/models"
)

// playerID builds a stable id from name and position so reseeding never
// changes identities.
func playerID(name string, pos models.Position) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, name)
	return fmt.Sprintf("%s_%s", clean, strings.ToLower(string(pos)))
}

func qb(name, team string, year, games int, fpts float64, line models.PassingLine) *models.Player {
	p := &models.Player{ID: playerID(name, models.QB), Name: name, Position: models.QB, Team: team}
	l := line
	p.Seasons = []models.SeasonStats{{Year: year, Games: games, FantasyPoints: fpts, Passing: &l}}
	return p
}

func rb(name, team string, year, games int, fpts float64, line models.RushingLine) *models.Player {
	p := &models.Player{ID: playerID(name, models.RB), Name: name, Position: models.RB, Team: team}
	l := line
	p.Seasons = []models.SeasonStats{{Year: year, Games: games, FantasyPoints: fpts, Rushing: &l}}
	return p
}

func receiver(pos models.Position, name, team string, year, games int, fpts float64, line models.ReceivingLine) *models.Player {
	p := &models.Player{ID: playerID(name, pos), Name: name, Position: pos, Team: team}
	l := line
	p.Seasons = []models.SeasonStats{{Year: year, Games: games, FantasyPoints: fpts, Receiving: &l}}
	return p
}

func basic(pos models.Position, name, team string, year, games int, fpts float64) *models.Player {
	return &models.Player{
		ID: playerID(name, pos), Name: name, Position: pos, Team: team,
		Seasons: []models.SeasonStats{{Year: year, Games: games, FantasyPoints: fpts}},
	}
}

func addSeason(p *models.Player, s models.SeasonStats) *models.Player {
	p.Seasons = append(p.Seasons, s)
	return p
}

// defaultPlayers is the bundled development dataset: one season of 2024
// stats per player, with a second year for a handful of established names so
// recency blending has something to chew on.
func defaultPlayers() []*models.Player {
	players := []*models.Player{
		qb("Josh Allen", "BUF", 2024, 17, 416.5, models.PassingLine{PassAtt: 541, PassCmp: 359, PassYds: 4306, PassTD: 29, Ints: 18, RushAtt: 122, RushYds: 524, RushTD: 15}),
		qb("Lamar Jackson", "BAL", 2024, 17, 404.6, models.PassingLine{PassAtt: 457, PassCmp: 307, PassYds: 3678, PassTD: 24, Ints: 7, RushAtt: 148, RushYds: 821, RushTD: 5}),
		qb("Dak Prescott", "DAL", 2024, 17, 375.7, models.PassingLine{PassAtt: 475, PassCmp: 329, PassYds: 4516, PassTD: 36, Ints: 9, RushAtt: 36, RushYds: 105, RushTD: 2}),
		qb("Jalen Hurts", "PHI", 2024, 17, 372.3, models.PassingLine{PassAtt: 428, PassCmp: 281, PassYds: 3858, PassTD: 23, Ints: 15, RushAtt: 139, RushYds: 605, RushTD: 15}),
		qb("C.J. Stroud", "HOU", 2024, 17, 353.6, models.PassingLine{PassAtt: 499, PassCmp: 319, PassYds: 4108, PassTD: 23, Ints: 5, RushAtt: 39, RushYds: 167, RushTD: 3}),
		qb("Patrick Mahomes", "KC", 2024, 17, 336.6, models.PassingLine{PassAtt: 566, PassCmp: 381, PassYds: 4183, PassTD: 27, Ints: 14, RushAtt: 75, RushYds: 389, RushTD: 4}),
		qb("Justin Herbert", "LAC", 2024, 17, 331.5, models.PassingLine{PassAtt: 522, PassCmp: 345, PassYds: 4733, PassTD: 25, Ints: 10, RushAtt: 51, RushYds: 228, RushTD: 3}),
		qb("Joe Burrow", "CIN", 2024, 10, 226.4, models.PassingLine{PassAtt: 365, PassCmp: 244, PassYds: 2309, PassTD: 15, Ints: 6, RushAtt: 31, RushYds: 79, RushTD: 0}),

		rb("Christian McCaffrey", "SF", 2024, 16, 339.4, models.RushingLine{Carries: 272, Targets: 83, Recs: 67, RushYds: 1459, RecvYds: 564, TotalTD: 21}),
		rb("Breece Hall", "NYJ", 2024, 17, 279.1, models.RushingLine{Carries: 223, Targets: 95, Recs: 76, RushYds: 994, RecvYds: 591, TotalTD: 9}),
		rb("Bijan Robinson", "ATL", 2024, 17, 264.8, models.RushingLine{Carries: 214, Targets: 86, Recs: 58, RushYds: 976, RecvYds: 487, TotalTD: 8}),
		rb("Jahmyr Gibbs", "DET", 2024, 15, 251.2, models.RushingLine{Carries: 182, Targets: 71, Recs: 52, RushYds: 945, RecvYds: 316, TotalTD: 11}),
		rb("Saquon Barkley", "PHI", 2024, 14, 222.7, models.RushingLine{Carries: 247, Targets: 60, Recs: 41, RushYds: 962, RecvYds: 280, TotalTD: 10}),
		rb("Derrick Henry", "BAL", 2024, 17, 221.9, models.RushingLine{Carries: 280, Targets: 32, Recs: 28, RushYds: 1167, RecvYds: 214, TotalTD: 13}),
		rb("Travis Etienne", "JAX", 2024, 17, 212.6, models.RushingLine{Carries: 267, Targets: 73, Recs: 58, RushYds: 1008, RecvYds: 476, TotalTD: 12}),
		rb("Kyren Williams", "LAR", 2024, 12, 198.9, models.RushingLine{Carries: 228, Targets: 48, Recs: 32, RushYds: 1144, RecvYds: 206, TotalTD: 15}),
		rb("Rachaad White", "TB", 2024, 17, 195.8, models.RushingLine{Carries: 272, Targets: 70, Recs: 64, RushYds: 990, RecvYds: 549, TotalTD: 9}),
		rb("James Cook", "BUF", 2024, 17, 188.5, models.RushingLine{Carries: 237, Targets: 54, Recs: 44, RushYds: 1122, RecvYds: 445, TotalTD: 6}),

		receiver(models.WR, "Tyreek Hill", "MIA", 2024, 17, 309.4, models.ReceivingLine{Targets: 171, Recs: 119, RecvYds: 1799, RecTD: 13, Routes: 600, AirYds: 1200}),
		receiver(models.WR, "CeeDee Lamb", "DAL", 2024, 17, 302.6, models.ReceivingLine{Targets: 181, Recs: 135, RecvYds: 1749, RecTD: 12, Routes: 650, AirYds: 1100}),
		receiver(models.WR, "Ja'Marr Chase", "CIN", 2024, 17, 314.5, models.ReceivingLine{Targets: 180, Recs: 120, RecvYds: 1500, RecTD: 12, Routes: 600, AirYds: 1200}),
		receiver(models.WR, "Amon-Ra St. Brown", "DET", 2024, 17, 290.7, models.ReceivingLine{Targets: 164, Recs: 119, RecvYds: 1515, RecTD: 10, Routes: 580, AirYds: 900}),
		receiver(models.WR, "Mike Evans", "TB", 2024, 17, 285.6, models.ReceivingLine{Targets: 136, Recs: 79, RecvYds: 1255, RecTD: 13, Routes: 500, AirYds: 1000}),
		receiver(models.WR, "A.J. Brown", "PHI", 2024, 17, 280.5, models.ReceivingLine{Targets: 146, Recs: 106, RecvYds: 1496, RecTD: 11, Routes: 520, AirYds: 950}),
		receiver(models.WR, "Puka Nacua", "LAR", 2024, 17, 260.1, models.ReceivingLine{Targets: 160, Recs: 105, RecvYds: 1486, RecTD: 6, Routes: 550, AirYds: 850}),
		receiver(models.WR, "Davante Adams", "LV", 2024, 17, 270.3, models.ReceivingLine{Targets: 175, Recs: 103, RecvYds: 1144, RecTD: 8, Routes: 620, AirYds: 800}),
		// No route tracking for these two, so the composite slot falls back
		// to yards per target.
		receiver(models.WR, "Cooper Kupp", "LAR", 2024, 12, 189.9, models.ReceivingLine{Targets: 130, Recs: 95, RecvYds: 1135, RecTD: 5}),
		receiver(models.WR, "DK Metcalf", "SEA", 2024, 16, 199.7, models.ReceivingLine{Targets: 95, Recs: 66, RecvYds: 1114, RecTD: 8}),

		receiver(models.TE, "Travis Kelce", "KC", 2024, 17, 241.4, models.ReceivingLine{Targets: 121, Recs: 93, RecvYds: 1338, RecTD: 10, Routes: 450, AirYds: 800}),
		receiver(models.TE, "Sam LaPorta", "DET", 2024, 17, 234.6, models.ReceivingLine{Targets: 120, Recs: 86, RecvYds: 889, RecTD: 10, Routes: 420, AirYds: 600}),
		receiver(models.TE, "Evan Engram", "JAX", 2024, 17, 224.4, models.ReceivingLine{Targets: 143, Recs: 114, RecvYds: 963, RecTD: 4, Routes: 500, AirYds: 600}),
		receiver(models.TE, "Trey McBride", "ARI", 2024, 17, 219.3, models.ReceivingLine{Targets: 106, Recs: 81, RecvYds: 825, RecTD: 3, Routes: 400, AirYds: 550}),
		receiver(models.TE, "George Kittle", "SF", 2024, 16, 214.2, models.ReceivingLine{Targets: 90, Recs: 65, RecvYds: 1020, RecTD: 6, Routes: 350, AirYds: 700}),
		receiver(models.TE, "Mark Andrews", "BAL", 2024, 14, 179.1, models.ReceivingLine{Targets: 61, Recs: 45, RecvYds: 544, RecTD: 6, Routes: 300, AirYds: 400}),

		basic(models.K, "Brandon McManus", "HOU", 2024, 17, 161.5),
		basic(models.K, "Jake Elliott", "PHI", 2024, 17, 156.4),
		basic(models.K, "Tyler Bass", "BUF", 2024, 17, 151.3),
		basic(models.DEF, "49ers D/ST", "SF", 2024, 17, 145.0),
		basic(models.DEF, "Cowboys D/ST", "DAL", 2024, 17, 139.2),
		basic(models.DEF, "Ravens D/ST", "BAL", 2024, 17, 133.8),
	}

	// Second seasons for a few veterans.
	for _, p := range players {
		switch p.ID {
		case playerID("Josh Allen", models.QB):
			addSeason(p, models.SeasonStats{Year: 2023, Games: 17, FantasyPoints: 392.6,
				Passing: &models.PassingLine{PassAtt: 579, PassCmp: 385, PassYds: 4283, PassTD: 29, Ints: 18, RushAtt: 111, RushYds: 524, RushTD: 15}})
		case playerID("Christian McCaffrey", models.RB):
			addSeason(p, models.SeasonStats{Year: 2023, Games: 16, FantasyPoints: 311.8,
				Rushing: &models.RushingLine{Carries: 244, Targets: 108, Recs: 85, RushYds: 1139, RecvYds: 741, TotalTD: 13}})
		case playerID("Tyreek Hill", models.WR):
			addSeason(p, models.SeasonStats{Year: 2023, Games: 16, FantasyPoints: 298.2,
				Receiving: &models.ReceivingLine{Targets: 170, Recs: 119, RecvYds: 1710, RecTD: 7, Routes: 590, AirYds: 1150}})
		case playerID("Travis Kelce", models.TE):
			addSeason(p, models.SeasonStats{Year: 2023, Games: 15, FantasyPoints: 219.9,
				Receiving: &models.ReceivingLine{Targets: 121, Recs: 93, RecvYds: 984, RecTD: 5, Routes: 460, AirYds: 750}})
		}
	}

	return players
}
