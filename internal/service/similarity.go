package service

// LevenshteinDistance 计算两个字符串之间的编辑距离，按 Unicode 字符而非字节比较
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // 删除
				matrix[i][j-1]+1,      // 插入
				matrix[i-1][j-1]+cost, // 替换
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// SimilarityRatio 计算相似度比例，取值 [0,1]。
// 任一字符串为空时约定返回 0（两个空串也是 0），空内容不视为有效相似
func SimilarityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	distance := LevenshteinDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	return 1 - float64(distance)/float64(maxLen)
}

// IsAutomatedAnswer 判定 AI 答案与人工答案是否相似到可视为自动化
func IsAutomatedAnswer(aiContent, humanContent string, threshold float64) bool {
	if aiContent == "" || humanContent == "" {
		return false
	}
	return SimilarityRatio(aiContent, humanContent) >= threshold
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
