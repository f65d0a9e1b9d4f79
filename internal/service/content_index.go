package service

import (
	"math"
	"sort"

	"github.com/user/scareclub/internal/utils"
)

// englishStopWords 特征串里可能混入的常见英文虚词
var englishStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "has": true,
	"had": true, "have": true, "he": true, "her": true, "his": true, "if": true,
	"in": true, "into": true, "is": true, "it": true, "its": true, "no": true,
	"not": true, "of": true, "on": true, "or": true, "our": true, "she": true,
	"so": true, "such": true, "that": true, "the": true, "their": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "will": true, "with": true,
	"you": true, "your": true,
}

// ScoredMovie 一个 (电影, 相似度) 对
type ScoredMovie struct {
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
}

// posting 倒排表项
type posting struct {
	docIdx int
	weight float64
}

// ContentIndex 基于 TF-IDF 的内容相似索引
// 只保存稀疏向量和倒排表，按需计算单行余弦相似度，
// 不物化 N×N 矩阵
type ContentIndex struct {
	ids      []int         // 文档顺序（按电影 ID 升序）
	idToIdx  map[int]int   // 电影 ID → 文档下标
	vectors  []map[int]float64 // 每个文档的 L2 归一化稀疏向量（词项下标 → 权重）
	postings map[int][]posting // 词项下标 → 倒排表
	vocab    map[string]int

	// 相似度行缓存：索引建成后只读，所以条目永不失效
	rowCache *utils.LRUCache[int, []ScoredMovie]
}

// NewContentIndex 在特征文档集合上构建索引
// maxFeatures 限制词表大小，只保留语料中出现最多的词项（含一元词和二元词）
func NewContentIndex(docs []FeatureDoc, maxFeatures int) *ContentIndex {
	idx := &ContentIndex{
		ids:      make([]int, 0, len(docs)),
		idToIdx:  make(map[int]int, len(docs)),
		vectors:  make([]map[int]float64, len(docs)),
		postings: make(map[int][]posting),
		rowCache: utils.NewLRUCache[int, []ScoredMovie](512),
	}

	// 文档顺序固定为电影 ID 升序，保证重建结果一致
	sorted := make([]FeatureDoc, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MovieID < sorted[j].MovieID })

	termLists := make([][]string, len(sorted))
	corpusCount := make(map[string]int)
	for i, doc := range sorted {
		idx.ids = append(idx.ids, doc.MovieID)
		idx.idToIdx[doc.MovieID] = i

		terms := extractTerms(doc.Tokens)
		termLists[i] = terms
		for _, term := range terms {
			corpusCount[term]++
		}
	}

	idx.vocab = selectVocabulary(corpusCount, maxFeatures)

	// 文档频率
	docFreq := make(map[int]int, len(idx.vocab))
	for _, terms := range termLists {
		seen := make(map[int]bool)
		for _, term := range terms {
			if termIdx, ok := idx.vocab[term]; ok && !seen[termIdx] {
				seen[termIdx] = true
				docFreq[termIdx]++
			}
		}
	}

	// TF-IDF 向量（平滑 IDF），再做 L2 归一化
	totalDocs := float64(len(sorted))
	for i, terms := range termLists {
		tf := make(map[int]float64)
		for _, term := range terms {
			if termIdx, ok := idx.vocab[term]; ok {
				tf[termIdx]++
			}
		}

		var norm float64
		for termIdx, count := range tf {
			idf := math.Log((1+totalDocs)/(1+float64(docFreq[termIdx]))) + 1
			weight := count * idf
			tf[termIdx] = weight
			norm += weight * weight
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for termIdx := range tf {
				tf[termIdx] /= norm
			}
		}

		idx.vectors[i] = tf
		for termIdx, weight := range tf {
			idx.postings[termIdx] = append(idx.postings[termIdx], posting{docIdx: i, weight: weight})
		}
	}

	return idx
}

// extractTerms 生成一元词和二元词序列（先去停用词）
func extractTerms(tokens []string) []string {
	unigrams := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token != "" && !englishStopWords[token] {
			unigrams = append(unigrams, token)
		}
	}

	terms := make([]string, 0, len(unigrams)*2)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}

// selectVocabulary 按语料词频保留前 maxFeatures 个词项（同频按字典序，保证确定性）
func selectVocabulary(corpusCount map[string]int, maxFeatures int) map[string]int {
	type termCount struct {
		term  string
		count int
	}
	all := make([]termCount, 0, len(corpusCount))
	for term, count := range corpusCount {
		all = append(all, termCount{term, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].term < all[j].term
	})

	if maxFeatures > 0 && len(all) > maxFeatures {
		all = all[:maxFeatures]
	}

	vocab := make(map[string]int, len(all))
	for i, tc := range all {
		vocab[tc.term] = i
	}
	return vocab
}

// Size 索引中的文档数
func (idx *ContentIndex) Size() int {
	return len(idx.ids)
}

// Similarity 两部电影的余弦相似度，取值 [0,1]
// 未知 ID 或空特征文档的相似度为 0
func (idx *ContentIndex) Similarity(a, b int) float64 {
	ai, ok := idx.idToIdx[a]
	if !ok {
		return 0
	}
	bi, ok := idx.idToIdx[b]
	if !ok {
		return 0
	}

	va, vb := idx.vectors[ai], idx.vectors[bi]
	if len(va) > len(vb) {
		va, vb = vb, va
	}

	var dot float64
	for termIdx, weight := range va {
		dot += weight * vb[termIdx]
	}
	return dot
}

// RankAll 计算某部电影与宇宙中其他所有电影的相似度，降序返回
// 相似度为 0 的电影不出现在结果里；自身被排除
// 同分时电影 ID 小者优先（确定性排序）
func (idx *ContentIndex) RankAll(movieID int) []ScoredMovie {
	if cached, ok := idx.rowCache.Get(movieID); ok {
		return cached
	}

	docIdx, ok := idx.idToIdx[movieID]
	if !ok {
		return nil
	}

	// 用倒排表累加一行余弦相似度，代价 O(N·nnz)
	scores := make(map[int]float64)
	for termIdx, weight := range idx.vectors[docIdx] {
		for _, p := range idx.postings[termIdx] {
			if p.docIdx != docIdx {
				scores[p.docIdx] += weight * p.weight
			}
		}
	}

	row := make([]ScoredMovie, 0, len(scores))
	for di, score := range scores {
		row = append(row, ScoredMovie{MovieID: idx.ids[di], Score: score})
	}
	sort.Slice(row, func(i, j int) bool {
		if row[i].Score != row[j].Score {
			return row[i].Score > row[j].Score
		}
		return row[i].MovieID < row[j].MovieID
	})

	idx.rowCache.Set(movieID, row)
	return row
}

// MostSimilar 返回与某部电影最相似的前 k 部
func (idx *ContentIndex) MostSimilar(movieID, k int) []ScoredMovie {
	row := idx.RankAll(movieID)
	if k > 0 && len(row) > k {
		row = row[:k]
	}
	return row
}
