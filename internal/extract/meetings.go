package extract

import "github.com/directorycat/catalog-pipeline/internal/model"

// schedulingHosts maps a recognized scheduling-platform host to its display
// label. 18 platforms, per the source catalog's recognized set.
var schedulingHosts = map[string]string{
	"calendly.com":              "Calendly",
	"cal.com":                   "Cal.com",
	"usemotion.com":             "Motion",
	"meetings.hubspot.com":      "HubSpot Meetings",
	"savvycal.com":              "Savvycal",
	"doodle.com":                "Doodle",
	"acuityscheduling.com":      "Acuity Scheduling",
	"chilipiper.com":            "Chili Piper",
	"youcanbook.me":             "YouCanBook.me",
	"oncehub.com":               "OnceHub",
	"setmore.com":               "Setmore",
	"appointments.squareup.com": "Square Appointments",
	"bookings.zoho.com":         "Zoho Bookings",
	"bookings.microsoft.com":    "Microsoft Bookings",
	"tidycal.com":               "TidyCal",
	"appointlet.com":            "Appointlet",
	"vyte.in":                   "Vyte",
	"calendar.com":              "Calendar.com",
}

// Meetings scans every Link block, including those carried on Person
// blocks, for a host matching a recognized scheduling platform.
func Meetings(slug string, sections []model.Section) []model.MeetingLink {
	seen := make(map[string]bool)
	var out []model.MeetingLink

	emit := func(rawURL string) {
		host := Host(rawURL)
		label, ok := schedulingHosts[host]
		if !ok {
			return
		}
		if seen[rawURL] {
			return
		}
		seen[rawURL] = true
		out = append(out, model.MeetingLink{Slug: slug, URL: rawURL, Platform: label})
	}

	for _, s := range sections {
		for _, b := range s.Blocks {
			switch b.Kind {
			case model.BlockLink:
				emit(b.LinkPayload.URL)
			case model.BlockPerson:
				for _, l := range b.PersonPayload.Links {
					emit(l.URL)
				}
			}
		}
	}
	return out
}
