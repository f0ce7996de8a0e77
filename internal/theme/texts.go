package theme

import (
	"golang.org/x/text/language"

	"BeautyGenius/entity"
	"BeautyGenius/internal/workflow"
)

var classic = &table{
	name: Classic,
	tag:  language.English,
	steps: map[workflow.StepID]string{
		workflow.StepWelcome:                "Welcome",
		workflow.StepImageUpload:            "Upload photo",
		workflow.StepAgeInput:               "Your age",
		workflow.StepSkinAnalysis:           "Skin analysis",
		workflow.StepAnalysisResult:         "Your results",
		workflow.StepSkincareRecommendation: "Recommendations",
	},
	skinTypes: map[entity.SkinType]SkinTypeInfo{
		entity.SkinNormal: {
			Type:        entity.SkinNormal,
			Title:       "Normal",
			Description: "Balanced, not too oily or dry",
			Icon:        "✨",
			Tips: []string{
				"Keep a gentle daily cleansing routine",
				"Use a lightweight moisturizer",
				"Apply sunscreen every day",
			},
		},
		entity.SkinDry: {
			Type:        entity.SkinDry,
			Title:       "Dry",
			Description: "Feels tight, may have flaky areas",
			Icon:        "💧",
			Tips: []string{
				"Use a cream cleanser",
				"Moisturize with a rich cream morning and night",
				"Add a hydrating serum",
			},
		},
		entity.SkinOily: {
			Type:        entity.SkinOily,
			Title:       "Oily",
			Description: "Shiny, enlarged pores, prone to breakouts",
			Icon:        "🌟",
			Tips: []string{
				"Wash with a gel cleanser",
				"Choose an oil-free moisturizer",
				"Consider products with salicylic acid",
			},
		},
		entity.SkinCombination: {
			Type:        entity.SkinCombination,
			Title:       "Combination",
			Description: "Oily T-zone, dry cheeks",
			Icon:        "🎭",
			Tips: []string{
				"Treat each zone with its own products",
				"Cleanse the whole face gently",
				"Moisturize the T-zone lightly and the cheeks richly",
			},
		},
		entity.SkinSensitive: {
			Type:        entity.SkinSensitive,
			Title:       "Sensitive",
			Description: "Easily irritated, reactive to products",
			Icon:        "🌸",
			Tips: []string{
				"Pick fragrance-free, simple formulas",
				"Patch test new products",
				"Prefer gentle hypoallergenic products",
			},
		},
	},
	statuses: map[workflow.Status]string{
		workflow.StatusIdle:      "",
		workflow.StatusUploading: "Uploading your photo...",
		workflow.StatusUploaded:  "Upload complete. Continue when you are ready.",
		workflow.StatusAnalyzing: "Analyzing your skin...",
		workflow.StatusComplete:  "Analysis complete!",
		workflow.StatusError:     "Something went wrong during the analysis. Check your connection and try again, or retake the photo.",
	},
	scoreLabels: map[entity.ScoreBand]string{
		entity.BandExcellent: "Perfect!",
		entity.BandGood:      "Beautiful!",
		entity.BandAverage:   "Great!",
		entity.BandFair:      "Good!",
		entity.BandPoor:      "Nice!",
	},
	categories: map[entity.ScoreCategory]CategoryInfo{
		entity.CategorySymmetry:    {Name: "Symmetry", Description: "Balance between the left and right side"},
		entity.CategoryProportion:  {Name: "Proportion", Description: "Closeness to the golden ratio"},
		entity.CategorySkinQuality: {Name: "Skin quality", Description: "Smoothness and clarity"},
		entity.CategoryExpression:  {Name: "Expression", Description: "How engaging the expression is"},
	},
	scoreTips: []string{
		"A more natural smile raises your expression score",
		"Face the camera directly for a more accurate symmetry rating",
		"Take the photo somewhere with plenty of light",
	},
}

var sakura = &table{
	name: Sakura,
	tag:  language.Japanese,
	steps: map[workflow.StepID]string{
		workflow.StepWelcome:                "ようこそ",
		workflow.StepImageUpload:            "写真をアップロード",
		workflow.StepAgeInput:               "年齢",
		workflow.StepSkinAnalysis:           "肌分析",
		workflow.StepAnalysisResult:         "肌分析の結果",
		workflow.StepSkincareRecommendation: "おすすめアイテム",
	},
	skinTypes: map[entity.SkinType]SkinTypeInfo{
		entity.SkinNormal: {
			Type:        entity.SkinNormal,
			Title:       "普通肌",
			Description: "肌の水分と油分がバランス良く、なめらかで健康的な状態です。",
			Icon:        "✨",
			Tips: []string{
				"毎日のやさしい洗顔でコンディションを保ちましょう",
				"軽めの保湿剤を使いましょう",
				"毎日日焼け止めを塗りましょう",
			},
		},
		entity.SkinDry: {
			Type:        entity.SkinDry,
			Title:       "乾燥肌",
			Description: "肌がつっぱりやすく、十分な保湿が必要な状態です。",
			Icon:        "💧",
			Tips: []string{
				"クリームタイプの洗顔料を使いましょう",
				"朝晩2回、こっくりした保湿クリームでケアしましょう",
				"保湿力の高い美容液を取り入れましょう",
			},
		},
		entity.SkinOily: {
			Type:        entity.SkinOily,
			Title:       "脂性肌",
			Description: "皮脂が多く分泌され、テカりや毛穴の目立ちにつながりやすい肌質です。",
			Icon:        "🌟",
			Tips: []string{
				"ジェルタイプの洗顔料でさっぱり洗いましょう",
				"オイルフリーの保湿剤を使いましょう",
				"サリチル酸配合のアイテムを検討しましょう",
			},
		},
		entity.SkinCombination: {
			Type:        entity.SkinCombination,
			Title:       "混合肌",
			Description: "Tゾーンは脂っぽく、頬は普通〜乾燥傾向の肌質です。",
			Icon:        "🎭",
			Tips: []string{
				"部位に合わせてアイテムを使い分けましょう",
				"全体は刺激の少ない洗顔料でやさしく洗いましょう",
				"Tゾーンは軽め、頬はしっかりめの保湿で調整しましょう",
			},
		},
		entity.SkinSensitive: {
			Type:        entity.SkinSensitive,
			Title:       "敏感肌",
			Description: "刺激に反応しやすく、特定の成分で赤みや違和感が出やすい肌質です。",
			Icon:        "🌸",
			Tips: []string{
				"無香料でシンプルな処方を選びましょう",
				"新しいアイテムはパッチテストを行いましょう",
				"低刺激で低アレルギー処方の製品を選びましょう",
			},
		},
	},
	statuses: map[workflow.Status]string{
		workflow.StatusIdle:      "",
		workflow.StatusUploading: "アップロード中...",
		workflow.StatusUploaded:  "写真のアップロードが完了しました。準備ができたら次のステップに進んでください。",
		workflow.StatusAnalyzing: "肌を解析しています",
		workflow.StatusComplete:  "分析が完了しました。結果を準備しています...",
		workflow.StatusError:     "ネットワーク状況などを確認して、再度お試しください。写真を撮り直すことでも改善する場合があります。",
	},
	scoreLabels: map[entity.ScoreBand]string{
		entity.BandExcellent: "素晴らしい",
		entity.BandGood:      "良い",
		entity.BandAverage:   "普通",
		entity.BandFair:      "改善の余地あり",
		entity.BandPoor:      "要改善",
	},
	categories: map[entity.ScoreCategory]CategoryInfo{
		entity.CategorySymmetry:    {Name: "顔の対称性", Description: "左右の顔のバランス"},
		entity.CategoryProportion:  {Name: "プロポーション", Description: "黄金比との適合度"},
		entity.CategorySkinQuality: {Name: "肌の質感", Description: "なめらかさ・透明感"},
		entity.CategoryExpression:  {Name: "表情", Description: "魅力的な表情かどうか"},
	},
	scoreTips: []string{
		"より自然な笑顔を心がけることで表情スコアが向上します",
		"正面から撮影すると対称性がより正確に評価されます",
		"十分な光量のある環境での撮影をお勧めします",
	},
}
