package services

import (
	"strings"

	"thuetro/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

// Ngưỡng tương đồng tối thiểu để chấp nhận kết quả fuzzy match
const geoSimilarityThreshold = 0.72

// GeoNormalizer chuẩn hóa tên tỉnh/thành và quận/huyện về dạng chính tắc
// trước khi so khớp phạm vi chính sách giá: bỏ dấu, hạ chữ thường, sửa
// lỗi gõ gần đúng theo danh mục chuẩn.
type GeoNormalizer struct {
	provinceMatcher *closestmatch.ClosestMatch
	districtMatcher *closestmatch.ClosestMatch
	provinces       map[string]string // normalized -> canonical
	districts       map[string]string
}

// NewGeoNormalizer xây normalizer từ danh sách tên chính tắc
func NewGeoNormalizer(provinces, districts []string) *GeoNormalizer {
	g := &GeoNormalizer{
		provinces: make(map[string]string),
		districts: make(map[string]string),
	}
	provinceKeys := make([]string, 0, len(provinces))
	for _, p := range provinces {
		key := normalizeInput(p)
		g.provinces[key] = p
		provinceKeys = append(provinceKeys, key)
	}
	districtKeys := make([]string, 0, len(districts))
	for _, d := range districts {
		key := normalizeInput(d)
		g.districts[key] = d
		districtKeys = append(districtKeys, key)
	}
	g.provinceMatcher = createMatcher(provinceKeys)
	g.districtMatcher = createMatcher(districtKeys)
	return g
}

// LoadGeoNormalizer nạp danh mục tỉnh/quận từ database
func LoadGeoNormalizer(db *gorm.DB) (*GeoNormalizer, error) {
	var provinces []models.Province
	if err := db.Find(&provinces).Error; err != nil {
		return nil, err
	}
	var districts []models.District
	if err := db.Find(&districts).Error; err != nil {
		return nil, err
	}

	provinceNames := make([]string, 0, len(provinces))
	for _, p := range provinces {
		provinceNames = append(provinceNames, p.ProvinceName)
	}
	districtNames := make([]string, 0, len(districts))
	for _, d := range districts {
		districtNames = append(districtNames, d.DistrictName)
	}
	return NewGeoNormalizer(provinceNames, districtNames), nil
}

// NormalizeProvince đưa tên tỉnh/thành về dạng chính tắc. Input rỗng giữ
// nguyên rỗng (phạm vi không giới hạn địa lý).
func (g *GeoNormalizer) NormalizeProvince(input string) string {
	return g.canonicalize(input, g.provinces, g.provinceMatcher)
}

// NormalizeDistrict đưa tên quận/huyện về dạng chính tắc
func (g *GeoNormalizer) NormalizeDistrict(input string) string {
	return g.canonicalize(input, g.districts, g.districtMatcher)
}

func (g *GeoNormalizer) canonicalize(input string, canon map[string]string, cm *closestmatch.ClosestMatch) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	key := normalizeInput(input)
	if canonical, ok := canon[key]; ok {
		return canonical
	}

	if cm != nil {
		closest := cm.Closest(key)
		if closest != "" && calculateSimilarity(key, closest) >= geoSimilarityThreshold {
			return canon[closest]
		}
	}

	// Không khớp được danh mục chuẩn: giữ nguyên input đã trim
	return strings.TrimSpace(input)
}

// Hàm chuẩn hóa chuỗi
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

// Tạo đối tượng closestmatch cho danh sách từ khóa
func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/maxLen
}
