package extract

import "github.com/directorycat/catalog-pipeline/internal/model"

// Page runs every per-section extractor over a clustered page and returns
// the aggregate PageRecords to persist. Founders are extracted first into a
// (name -> founder_id) lookup scoped to the page, then links are attributed
// back to their founder — resolving the link/founder relation with two
// linear passes instead of a cyclic one.
func Page(sourceURL string, sections []model.Section) model.PageRecords {
	slug := SlugFromURL(sourceURL)

	byKind := make(map[model.SectionKind]model.Section, len(sections))
	for _, s := range sections {
		if existing, ok := byKind[s.Kind]; ok {
			existing.Blocks = append(existing.Blocks, s.Blocks...)
			byKind[s.Kind] = existing
			continue
		}
		byKind[s.Kind] = s
	}

	founders := Founders(slug, byKind[model.SectionFounders])

	founderIDByName := make(map[string]string, len(founders))
	for _, f := range founders {
		founderIDByName[f.Name] = f.ID
	}

	return model.PageRecords{
		Company:  Company(slug, sourceURL, byKind),
		Founders: founders,
		News:     News(slug, byKind[model.SectionNews]),
		Jobs:     Jobs(slug, byKind[model.SectionJobs]),
		Links:    Links(slug, sections, founderIDByName),
		Meetings: Meetings(slug, sections),
	}
}
