package recommend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/models"
)

// Señales que alimentan el perfil: interacciones explícitas más los
// ganadores/perdedores del historial de votos.
const (
	SignalWantToWatch   = "want_to_watch"
	SignalWatched       = "watched"
	SignalVoteWinner    = "vote_winner"
	SignalVoteLoser     = "vote_loser"
	SignalNotInterested = "not_interested"
)

type Signal struct {
	Type    string
	Content *models.ContentItem
}

// Weight devuelve el peso de cada tipo de señal. Los negativos restan
// afinidad pero no construyen preferencias.
func Weight(signalType string) float64 {
	switch signalType {
	case SignalWantToWatch:
		return 1.0
	case SignalWatched:
		return 0.8
	case SignalVoteWinner:
		return 0.6
	case SignalVoteLoser:
		return -0.3
	case SignalNotInterested:
		return -0.5
	}
	return 0.0
}

// Profile resume las preferencias aprendidas de una identidad.
type Profile struct {
	GenrePrefs      map[string]float64
	DecadePrefs     map[string]float64
	ContentTypePref map[string]float64
	QualityPref     float64
	Strength        float64 // proporción de señales positivas
	PositiveCount   int
	NegativeCount   int
}

// BuildProfile arma el perfil a partir de las señales. Solo las señales
// positivas aportan preferencias; las negativas cuentan para Strength.
func BuildProfile(signals []Signal) Profile {
	p := Profile{
		GenrePrefs:  map[string]float64{},
		DecadePrefs: map[string]float64{},
		ContentTypePref: map[string]float64{
			models.ContentTypeMovie:  0.5,
			models.ContentTypeSeries: 0.5,
		},
	}

	for _, s := range signals {
		w := Weight(s.Type)
		if w > 0 {
			p.PositiveCount++
		} else if w < 0 {
			p.NegativeCount++
		}
	}

	total := p.PositiveCount + p.NegativeCount
	if total > 0 {
		p.Strength = float64(p.PositiveCount) / float64(total)
	}

	for _, s := range signals {
		w := Weight(s.Type)
		if w <= 0 || s.Content == nil {
			continue
		}
		c := s.Content

		for _, g := range splitGenres(c.Genre) {
			p.GenrePrefs[g] += w
		}

		p.DecadePrefs[decadeOf(c.Year)] += w

		if _, ok := p.ContentTypePref[c.ContentType]; ok {
			p.ContentTypePref[c.ContentType] += w * 0.1
		}

		if r := safeFloat(c.Rating); r > 0 {
			p.QualityPref += r * w
		}
	}

	normalize(p.GenrePrefs)
	normalize(p.DecadePrefs)

	// content type se normaliza a suma 1 para que sea legible como proporción
	ctTotal := 0.0
	for _, v := range p.ContentTypePref {
		ctTotal += v
	}
	if ctTotal > 0 {
		for k := range p.ContentTypePref {
			p.ContentTypePref[k] /= ctTotal
		}
	}

	return p
}

// Candidate es una recomendación puntuada, todavía sin identidad ni
// timestamp (eso lo pone el servicio al persistir).
type Candidate struct {
	Content    models.ContentItem
	Score      float64
	Reasoning  string
	Confidence float64
}

// Generate puntúa los candidatos y devuelve el top-n, deduplicado por id
// interno, por imdb_id y por título+año: dos filas del mismo título son un
// defecto, no un artefacto aceptable de cache.
func Generate(items []models.ContentItem, p Profile, n int, now time.Time) []Candidate {
	if n <= 0 {
		n = 10
	}

	seenIDs := map[string]struct{}{}
	var cands []Candidate

	for _, item := range items {
		if _, ok := seenIDs[item.ID]; ok {
			continue
		}
		if item.IMDBID != "" {
			if _, ok := seenIDs[item.IMDBID]; ok {
				continue
			}
		}
		seenIDs[item.ID] = struct{}{}
		if item.IMDBID != "" {
			seenIDs[item.IMDBID] = struct{}{}
		}

		conf := p.Strength * 2
		if conf > 1.0 {
			conf = 1.0
		}
		if p.PositiveCount+p.NegativeCount == 0 {
			conf = 0.5
		}

		cands = append(cands, Candidate{
			Content:    item,
			Score:      ScoreContent(item, p, now),
			Reasoning:  Reasoning(item, p, now),
			Confidence: conf,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })

	// pasada final por título+año, por si el catálogo trae duplicados con
	// distinto id (pasó con cargas repetidas desde OMDB)
	seenTitles := map[string]struct{}{}
	out := make([]Candidate, 0, n)
	for _, c := range cands {
		key := strings.ToLower(strings.TrimSpace(c.Content.Title)) + "_" + c.Content.Year
		if _, ok := seenTitles[key]; ok {
			continue
		}
		seenTitles[key] = struct{}{}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

// ScoreContent combina género (40%), calidad (25%), tipo de contenido
// (20%), década (10%) y recencia (5%). Resultado acotado a [0, 1].
func ScoreContent(item models.ContentItem, p Profile, now time.Time) float64 {
	score := genreScore(item, p) * 0.4

	quality := 0.5
	if r := safeFloat(item.Rating); r > 0 {
		quality = r / 10.0
	}
	score += quality * 0.25

	ctPref, ok := p.ContentTypePref[item.ContentType]
	if !ok {
		ctPref = 0.5
	}
	score += ctPref * 0.2

	decadePref, ok := p.DecadePrefs[decadeOf(item.Year)]
	if !ok {
		decadePref = 0.1
	}
	score += decadePref * 0.1

	recency := 1.0 - float64(now.Year()-yearOf(item.Year))/50.0
	if recency < 0 {
		recency = 0
	}
	score += recency * 0.05

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func genreScore(item models.ContentItem, p Profile) float64 {
	genres := splitGenres(item.Genre)
	if len(genres) == 0 || len(p.GenrePrefs) == 0 {
		return 0.5 // neutro: sin datos no castigamos ni premiamos
	}

	total := 0.0
	matched := 0
	for _, g := range genres {
		if w, ok := p.GenrePrefs[g]; ok {
			total += w
			matched++
		}
	}
	if matched == 0 {
		return 0.2
	}
	return total / float64(matched)
}

// Reasoning arma el texto "Recommended because it ..." que ve el usuario.
func Reasoning(item models.ContentItem, p Profile, now time.Time) string {
	var reasons []string

	top := topGenres(p.GenrePrefs, 3)
	for _, g := range splitGenres(item.Genre) {
		if _, ok := top[g]; ok {
			reasons = append(reasons, fmt.Sprintf("matches your preference for %s", g))
			break
		}
	}

	if r := safeFloat(item.Rating); r >= 8.0 {
		reasons = append(reasons, "highly rated content")
	} else if r >= 7.0 {
		reasons = append(reasons, "well-reviewed")
	}

	if now.Year()-yearOf(item.Year) <= 3 {
		reasons = append(reasons, "recent release")
	}

	if pref, ok := p.ContentTypePref[item.ContentType]; ok && pref > 0.6 {
		reasons = append(reasons, fmt.Sprintf("matches your %s preference", item.ContentType))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "explores new content areas")
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return "Recommended because it " + strings.Join(reasons, " and ")
}

// ========================= helpers =========================

func splitGenres(genre string) []string {
	if genre == "" {
		return nil
	}
	parts := strings.Split(genre, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if g := strings.TrimSpace(p); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// yearOf saca el año numérico de strings tipo "2019" o "2019–2021".
func yearOf(year string) int {
	if year == "" {
		return 2000
	}
	for i, r := range year {
		if r < '0' || r > '9' {
			year = year[:i]
			break
		}
	}
	y, err := strconv.Atoi(year)
	if err != nil || y == 0 {
		return 2000
	}
	return y
}

func decadeOf(year string) string {
	return fmt.Sprintf("%ds", (yearOf(year)/10)*10)
}

func safeFloat(s string) float64 {
	if s == "" || s == "N/A" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func normalize(prefs map[string]float64) {
	total := 0.0
	for _, w := range prefs {
		if w < 0 {
			total += -w
		} else {
			total += w
		}
	}
	if total == 0 {
		return
	}
	for k := range prefs {
		prefs[k] /= total
	}
}

func topGenres(prefs map[string]float64, n int) map[string]struct{} {
	type kv struct {
		k string
		v float64
	}
	sorted := make([]kv, 0, len(prefs))
	for k, v := range prefs {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].v > sorted[j].v })

	out := map[string]struct{}{}
	for i := 0; i < len(sorted) && i < n; i++ {
		out[sorted[i].k] = struct{}{}
	}
	return out
}
