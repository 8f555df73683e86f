package models

// Level 等级定义，静态目录，按PointsRequired升序
type Level struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	PointsRequired int    `json:"pointsRequired"`
	Icon           string `json:"icon"`
}

// LevelCatalog 返回全部等级定义，按积分门槛升序
func LevelCatalog() []Level {
	return []Level{
		{ID: 1, Name: "AI Novice", PointsRequired: 0, Icon: "seedling"},
		{ID: 2, Name: "AI Explorer", PointsRequired: 100, Icon: "compass"},
		{ID: 3, Name: "AI Practitioner", PointsRequired: 250, Icon: "wrench"},
		{ID: 4, Name: "AI Specialist", PointsRequired: 500, Icon: "gear"},
		{ID: 5, Name: "AI Strategist", PointsRequired: 1000, Icon: "chess"},
		{ID: 6, Name: "AI Visionary", PointsRequired: 2000, Icon: "crown"},
	}
}
