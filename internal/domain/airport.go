package domain

import "fmt"

type Airport struct {
	ID             int64
	Name           string
	ClosestBigCity string
}

type Crew struct {
	ID        int64
	FirstName string
	LastName  string
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Route struct {
	ID          int64
	Source      Airport
	Destination Airport
	Distance    int
}

// Short is the compact "Source-Destination" form used in listings.
func (r Route) Short() string {
	return r.Source.Name + "-" + r.Destination.Name
}

// Description is the full human readable route, cities included.
func (r Route) Description() string {
	return fmt.Sprintf("%s (%s) - %s (%s)", r.Source.Name, r.Source.ClosestBigCity, r.Destination.Name, r.Destination.ClosestBigCity)
}
