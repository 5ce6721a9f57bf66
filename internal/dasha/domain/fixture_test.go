package domain

// timeline returns a small, correctly tiled three-level timeline. Adjacent
// periods start the day after their predecessor ends.
func timeline() ([]Mahadasha, []Antardasha, []Pratyantardasha) {
	mahas := []Mahadasha{
		NewMahadasha("Ketu", "2015-01-01", "2022-01-01"),
		NewMahadasha("Venus", "2022-01-02", "2042-01-01"),
	}
	antars := []Antardasha{
		NewAntardasha("Ketu", "Ketu", "2015-01-01", "2017-02-28"),
		NewAntardasha("Ketu", "Venus", "2017-03-01", "2019-09-01"),
		NewAntardasha("Ketu", "Sun", "2019-09-02", "2022-01-01"),
		NewAntardasha("Venus", "Venus", "2022-01-02", "2030-12-31"),
		NewAntardasha("Venus", "Sun", "2031-01-01", "2042-01-01"),
	}
	pratys := []Pratyantardasha{
		NewPratyantardasha("Ketu", "Ketu", "Ketu", "2015-01-01", "2016-01-31"),
		NewPratyantardasha("Ketu", "Ketu", "Venus", "2016-02-01", "2017-02-28"),
		NewPratyantardasha("Ketu", "Venus", "Venus", "2017-03-01", "2018-05-31"),
		NewPratyantardasha("Ketu", "Venus", "Mars", "2018-06-01", "2019-09-01"),
		NewPratyantardasha("Ketu", "Sun", "Sun", "2019-09-02", "2020-12-31"),
		NewPratyantardasha("Ketu", "Sun", "Moon", "2021-01-01", "2022-01-01"),
		NewPratyantardasha("Venus", "Venus", "Venus", "2022-01-02", "2025-12-31"),
		NewPratyantardasha("Venus", "Venus", "Sun", "2026-01-01", "2030-12-31"),
		NewPratyantardasha("Venus", "Sun", "Sun", "2031-01-01", "2036-12-31"),
		NewPratyantardasha("Venus", "Sun", "Moon", "2037-01-01", "2042-01-01"),
	}
	return mahas, antars, pratys
}

// handoffTimeline returns a timeline where every boundary day is shared by
// the period that ends and the period that starts, the way the engine
// formats continuous instants.
func handoffTimeline() ([]Mahadasha, []Antardasha, []Pratyantardasha) {
	mahas := []Mahadasha{
		NewMahadasha("Mars", "2000-01-01", "2005-06-10"),
		NewMahadasha("Rahu", "2005-06-10", "2010-01-01"),
	}
	antars := []Antardasha{
		NewAntardasha("Mars", "Mars", "2000-01-01", "2003-03-03"),
		NewAntardasha("Mars", "Rahu", "2003-03-03", "2005-06-10"),
		NewAntardasha("Rahu", "Rahu", "2005-06-10", "2010-01-01"),
	}
	pratys := []Pratyantardasha{
		NewPratyantardasha("Mars", "Mars", "Mars", "2000-01-01", "2003-03-03"),
		NewPratyantardasha("Mars", "Rahu", "Rahu", "2003-03-03", "2005-06-10"),
		NewPratyantardasha("Rahu", "Rahu", "Rahu", "2005-06-10", "2007-07-07"),
		NewPratyantardasha("Rahu", "Rahu", "Jupiter", "2007-07-07", "2010-01-01"),
	}
	return mahas, antars, pratys
}

func mustTree(mahas []Mahadasha, antars []Antardasha, pratys []Pratyantardasha) *Tree {
	t, err := BuildTree(mahas, antars, pratys)
	if err != nil {
		panic(err)
	}
	return t
}
