package repos

import "gorm.io/gorm"

// Stores bundles every repository over one database handle. The engine
// services receive this as a single explicit dependency.
type Stores struct {
	Postings   *PostingRepository
	Categories *CategoryRepository
	Companies  *CompanyRepository
	Progress   *ProgressRepository
	History    *SyncHistoryRepository
	Duplicates *DuplicateRepository
}

// NewStores creates every repository over the given database handle.
func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Postings:   NewPostingRepository(db),
		Categories: NewCategoryRepository(db),
		Companies:  NewCompanyRepository(db),
		Progress:   NewProgressRepository(db),
		History:    NewSyncHistoryRepository(db),
		Duplicates: NewDuplicateRepository(db),
	}
}
