package recurring

// Resolution is the server-side reading of a classifier guess.
type Resolution struct {
	Pattern        Pattern
	IsRecurring    bool
	PrimaryDate    string
	RecurringDates []string
	Expiration     string
}

// Resolve normalizes and expands g with n. IsRecurring is true for every pattern
// that expands to dates, explicit days included, so the dates drive visibility.
// When the guess has no primary date the first expanded date stands in for it.
func (n Normalizer) Resolve(g Guess, reference YearMonth) Resolution {
	p := n.Normalize(g, reference)
	dates := Expand(p)

	res := Resolution{
		Pattern:        p,
		PrimaryDate:    p.PrimaryDate,
		RecurringDates: dates,
		IsRecurring:    len(dates) > 0,
	}
	if res.PrimaryDate == "" && len(dates) > 0 {
		res.PrimaryDate = dates[0]
	}
	res.Expiration, _ = EffectiveExpiration(res.PrimaryDate, res.IsRecurring, res.RecurringDates)
	return res
}

// Resolve applies the default Normalizer.
func Resolve(g Guess, reference YearMonth) Resolution {
	return Normalizer{}.Resolve(g, reference)
}
