package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/gradebook/internal/models"
	"github.com/SAP-F-2025/gradebook/internal/scoring"
	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// Column headers of the course sheet, shared by export and import
var reportHeaders = []string{
	"Category", "Weight", "Drops", "Category Average",
	"Assignment", "Actual Points", "Possible Points", "Grade",
}

type ImportExportService interface {
	// Import operations
	ImportCourseFile(ctx context.Context, path, name string, credits float64) (*models.Course, error)
	ImportCourseFromJSON(ctx context.Context, reader io.Reader, name string, credits float64) (*models.Course, error)
	ImportCourseFromExcel(ctx context.Context, reader io.Reader, name string, credits float64) (*models.Course, error)

	// Export operations
	ExportCoursesToExcel(ctx context.Context, courseIndexes []int) ([]byte, error)
}

type importExportService struct {
	gradebook GradebookService
	codec     Codec
	logger    *slog.Logger
}

func NewImportExportService(gradebook GradebookService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		gradebook: gradebook,
		logger:    logger,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportCourseFile picks the parser from the file extension. An empty name
// defaults to the file name without its extension.
func (s *importExportService) ImportCourseFile(ctx context.Context, path, name string, credits float64) (*models.Course, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open course file: %w", err)
	}
	defer file.Close()

	switch ext {
	case ".json":
		return s.ImportCourseFromJSON(ctx, file, name, credits)
	case ".xlsx":
		return s.ImportCourseFromExcel(ctx, file, name, credits)
	default:
		return nil, NewValidationError("file", "unsupported file format, expected .json or .xlsx", ext)
	}
}

func (s *importExportService) ImportCourseFromJSON(ctx context.Context, reader io.Reader, name string, credits float64) (*models.Course, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return s.gradebook.ImportCourse(ctx, name, credits, data)
}

// ImportCourseFromExcel reads the first sheet that has a header row with a
// Category column. Each following row adds one assignment; rows without an
// assignment name only declare their category.
func (s *importExportService) ImportCourseFromExcel(ctx context.Context, reader io.Reader, name string, credits float64) (*models.Course, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewGradebookError("import_excel", ErrMalformedImport, err.Error(), nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewGradebookError("import_excel", ErrMalformedImport, "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	headerRow, headerMap := findHeader(rows)
	if headerRow < 0 {
		return nil, NewGradebookError("import_excel", ErrMalformedImport, "no header row with a Category column", map[string]interface{}{
			"sheet": sheets[0],
		})
	}

	categories, err := parseCourseRows(rows[headerRow+1:], headerMap, headerRow+2)
	if err != nil {
		return nil, err
	}

	raw, err := s.codec.EncodeCategories(categories)
	if err != nil {
		return nil, fmt.Errorf("failed to encode imported categories: %w", err)
	}

	s.logger.Info("Excel course parsed",
		"sheet", sheets[0],
		"rows", len(rows)-headerRow-1,
		"categories", categories.Len())

	return s.gradebook.ImportCourse(ctx, name, credits, raw)
}

// ===== EXPORT OPERATIONS =====

// ExportCoursesToExcel writes one sheet per course. No indexes means every course.
func (s *importExportService) ExportCoursesToExcel(ctx context.Context, courseIndexes []int) ([]byte, error) {
	courses := s.gradebook.Courses()
	if len(courseIndexes) > 0 {
		selected := make([]*models.Course, 0, len(courseIndexes))
		for _, i := range courseIndexes {
			course, err := s.gradebook.Course(i)
			if err != nil {
				return nil, err
			}
			selected = append(selected, course)
		}
		courses = selected
	}

	f := excelize.NewFile()
	defer f.Close()

	usedNames := make(map[string]bool)
	for i, course := range courses {
		sheetName := uniqueSheetName(course.Name, usedNames)

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}

		if err := writeCourseSheet(f, sheetName, course); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Courses exported", "courses", len(courses), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// ===== HELPERS =====

func writeCourseSheet(f *excelize.File, sheet string, course *models.Course) error {
	average := scoring.CourseAverage(course)
	summary := [][]interface{}{
		{"Course", course.Name},
		{"Credits", course.Credits},
		{"Average", scoring.DisplayPercent(average)},
		{"Standing", scoring.Standing(average)},
	}

	row := 1
	for _, values := range summary {
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	row++

	header := make([]interface{}, len(reportHeaders))
	for i, h := range reportHeaders {
		header[i] = h
	}
	if err := setRow(f, sheet, row, header); err != nil {
		return err
	}
	row++

	var err error
	course.Categories.Each(func(name string, cat *models.Category) {
		if err != nil {
			return
		}
		categoryCells := []interface{}{name, optionalCell(cat.Weight), cat.NumDrops, optionalCell(cat.Average)}

		if len(cat.Grades) == 0 {
			err = setRow(f, sheet, row, categoryCells)
			row++
			return
		}
		for _, a := range cat.Grades {
			values := append(append([]interface{}{}, categoryCells...),
				a.Name, a.ActualPoints, a.PossiblePoints, numberCell(a.Grade))
			if err = setRow(f, sheet, row, values); err != nil {
				return
			}
			row++
		}
	})
	return err
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

func optionalCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return numberCell(*v)
}

func numberCell(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return v
}

// uniqueSheetName strips characters Excel rejects, truncates to the sheet name
// limit and appends a counter on collisions.
func uniqueSheetName(name string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	base = strings.Trim(base, "'")
	if base == "" {
		base = "Course"
	}
	base = truncateRunes(base, maxSheetNameLength)

	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(base, maxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

var headerAliases = map[string]string{
	"category":       "category",
	"weight":         "weight",
	"drops":          "numdrops",
	"numdrops":       "numdrops",
	"assignment":     "name",
	"name":           "name",
	"actualpoints":   "actualpoints",
	"actual":         "actualpoints",
	"possiblepoints": "possiblepoints",
	"possible":       "possiblepoints",
}

func findHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		headerMap := make(map[string]int)
		for col, cell := range row {
			if field, ok := headerAliases[normalizeHeader(cell)]; ok {
				if _, seen := headerMap[field]; !seen {
					headerMap[field] = col
				}
			}
		}
		if _, ok := headerMap["category"]; ok {
			return i, headerMap
		}
	}
	return -1, nil
}

func parseCourseRows(rows [][]string, headerMap map[string]int, firstRowNum int) (*models.CategoryMap, error) {
	categories := models.NewCategoryMap()

	for i, row := range rows {
		rowNum := firstRowNum + i
		cell := func(field string) string {
			col, ok := headerMap[field]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		categoryName := cell("category")
		if categoryName == "" {
			continue
		}

		cat, ok := categories.Get(categoryName)
		if !ok {
			cat = models.NewCategory(nil, 0)
			categories.Set(categoryName, cat)
		}

		if raw := cell("weight"); raw != "" && cat.Weight == nil {
			weight, err := parseCellNumber(raw, "weight", rowNum)
			if err != nil {
				return nil, err
			}
			cat.Weight = &weight
		}
		if raw := cell("numdrops"); raw != "" {
			drops, err := parseCellNumber(raw, "numDrops", rowNum)
			if err != nil {
				return nil, err
			}
			cat.NumDrops = max(int(drops), 0)
		}

		assignmentName := cell("name")
		if assignmentName == "" {
			continue
		}
		actual, err := parseCellNumber(cell("actualpoints"), "actualPoints", rowNum)
		if err != nil {
			return nil, err
		}
		possible, err := parseCellNumber(cell("possiblepoints"), "possiblePoints", rowNum)
		if err != nil {
			return nil, err
		}
		cat.Grades = append(cat.Grades, &models.Assignment{
			Name:           assignmentName,
			ActualPoints:   actual,
			PossiblePoints: possible,
		})
	}

	return categories, nil
}

// parseCellNumber treats an empty cell as zero, like the JSON import does.
func parseCellNumber(raw, field string, rowNum int) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil {
		return 0, NewGradebookError("import_excel", ErrMalformedImport, fmt.Sprintf("row %d: %s %q is not a number", rowNum, field, raw), map[string]interface{}{
			"row":   rowNum,
			"field": field,
		})
	}
	return v, nil
}
