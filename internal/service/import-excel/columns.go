package import_excel

import "strings"

type field string

const (
	fieldFirstName  field = "first_name"
	fieldLastName   field = "last_name"
	fieldNationalID field = "national_id"
	fieldContact    field = "contact"
	fieldAddress    field = "address"
	fieldSalary     field = "salary"
	fieldSite       field = "site"
	fieldHireDate   field = "hire_date"
	fieldBirthDate  field = "birth_date"
	fieldStatus     field = "status"

	fieldProductName    field = "product_name"
	fieldCode           field = "code"
	fieldCategory       field = "category"
	fieldUnit           field = "unit"
	fieldQuantity       field = "quantity"
	fieldAlertThreshold field = "alert_threshold"
)

// column binds a field to the header keywords that announce it. Keywords are
// matched as substrings of the accent-free uppercased header cell.
type column struct {
	field    field
	label    string
	keywords []string
}

// Order matters: the first matching column wins, so "PRENOMS" must be tried
// before "NOM" and "SEUIL D'ALERTE" before "STOCK".
var workerColumns = []column{
	{fieldFirstName, "PRENOMS", []string{"PRENOM"}},
	{fieldBirthDate, "DATE DE NAISSANCE", []string{"NAISSANCE"}},
	{fieldHireDate, "DATE D'EMBAUCHE", []string{"EMBAUCHE", "ENTREE"}},
	{fieldNationalID, "N° CNI", []string{"CNI", "CIN", "IDENTITE", "N° ID", "PIECE"}},
	{fieldContact, "CONTACT", []string{"CONTACT", "TEL"}},
	{fieldAddress, "ADRESSE", []string{"ADRESSE", "DOMICILE"}},
	{fieldSalary, "SALAIRE DE BASE", []string{"SALAIRE"}},
	{fieldSite, "SITE", []string{"SITE", "CHANTIER"}},
	{fieldStatus, "STATUT", []string{"STATUT"}},
	{fieldLastName, "NOMS", []string{"NOM"}},
}

var productColumns = []column{
	{fieldAlertThreshold, "SEUIL D'ALERTE", []string{"SEUIL", "ALERTE"}},
	{fieldCategory, "CATEGORIE", []string{"CATEGORIE", "FAMILLE"}},
	{fieldCode, "CODE", []string{"CODE", "REFERENCE"}},
	{fieldUnit, "UNITE", []string{"UNITE"}},
	{fieldQuantity, "QUANTITE", []string{"QUANTITE", "QTE", "STOCK"}},
	{fieldProductName, "NOM DU PRODUIT", []string{"PRODUIT", "DESIGNATION", "LIBELLE", "NOM"}},
}

const productHeaderMarker = "NOM DU PRODUIT"

// columnMap holds the column index of every field seen in the last header.
// A missing key means the column is unknown.
type columnMap map[field]int

func (m columnMap) has(f field) bool {
	_, ok := m[f]
	return ok
}

// value returns the trimmed cell for f and whether it carries anything.
func (m columnMap) value(row []string, f field) (string, bool) {
	idx, ok := m[f]
	if !ok {
		return "", false
	}

	v := cellAt(row, idx)
	return v, v != ""
}

func matchField(columns []column, cell string) (field, bool) {
	h := normalizeHeader(cell)
	if h == "" {
		return "", false
	}

	for _, c := range columns {
		for _, kw := range c.keywords {
			if strings.Contains(h, kw) {
				return c.field, true
			}
		}
	}

	return "", false
}

// mapColumns builds a fresh map from a header row. The leftmost cell wins
// when two cells announce the same field.
func mapColumns(columns []column, row []string) columnMap {
	m := make(columnMap)

	for i, cell := range row {
		f, ok := matchField(columns, cell)
		if !ok || m.has(f) {
			continue
		}
		m[f] = i
	}

	return m
}

// isHeaderWord reports whether a lone cell is itself a column title, like a
// stray "PRENOMS" on its own line. Such cells are never site names.
func isHeaderWord(columns []column, cell string) bool {
	h := normalizeHeader(cell)

	for _, c := range columns {
		if h == normalizeHeader(c.label) {
			return true
		}
		for _, kw := range c.keywords {
			if h == kw {
				return true
			}
		}
	}

	return false
}
