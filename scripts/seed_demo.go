// 演示数据种子脚本
//
// 创建一对互审的教师账号和若干不同状态的试题，方便本地联调。
// 已有同邮箱账号时跳过，不会重复插入。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"os"

	"qbank_backend/internal/config"
	"qbank_backend/internal/model"
	"qbank_backend/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("faculty123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码哈希失败: %v", err)
	}

	alice := seedUser(db, &model.User{
		Name:       "Alice",
		Email:      "alice@college.edu",
		Password:   string(hashed),
		Role:       model.Faculty,
		CourseCode: "CS301",
		Degree:     model.UG,
	})
	bob := seedUser(db, &model.User{
		Name:       "Bob",
		Email:      "bob@college.edu",
		Password:   string(hashed),
		Role:       model.Faculty,
		CourseCode: "CS405",
		Degree:     model.PG,
	})

	// 互为审核人
	db.Model(alice).Update("vetting_id", bob.ID)
	db.Model(bob).Update("vetting_id", alice.ID)

	questions := []model.Question{
		{
			FacultyID:  alice.ID,
			CourseCode: "CS301",
			Unit:       "Unit 1",
			Portion:    "A",
			Topic:      "Graph Traversal",
			Mark:       1,
			Question:   "<p>Which traversal uses a queue?</p>",
			Answer:     "<p>BFS</p>",
			OptionA:    "<p>BFS</p>",
			OptionB:    "<p>DFS</p>",
			OptionC:    "<p>Dijkstra</p>",
			OptionD:    "<p>Prim</p>",
			Status:     model.StatusPending,
		},
		{
			FacultyID:  alice.ID,
			CourseCode: "CS301",
			Unit:       "Unit 2",
			Portion:    "B",
			Topic:      "AVL Trees",
			Mark:       6,
			Question:   "<p>Explain rotations in AVL trees with an example.</p>",
			Answer:     "<p>Single and double rotations restore the balance factor.</p>",
			Status:     model.StatusAccepted,
			Remarks:    "Meets Course Outcome",
			ReviewedBy: "bob@college.edu",
		},
		{
			FacultyID:  bob.ID,
			CourseCode: "CS405",
			Unit:       "Unit 3",
			Portion:    "B",
			Topic:      "Query Optimization",
			Mark:       13,
			Question:   "<p>Design a cost-based optimization plan for the given schema.</p>",
			Answer:     "<p>Discuss join ordering, index selection and statistics.</p>",
			Status:     model.StatusRejected,
			Remarks:    "Ambiguous Wording",
		},
	}

	for i := range questions {
		var count int64
		db.Model(&model.Question{}).
			Where("faculty_id = ? AND topic = ?", questions[i].FacultyID, questions[i].Topic).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&questions[i]).Error; err != nil {
			log.Printf("试题写入失败: %v", err)
		}
	}

	log.Println("演示数据就绪: alice@college.edu / bob@college.edu (faculty123)")
}

func seedUser(db *gorm.DB, u *model.User) *model.User {
	var existing model.User
	if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
		return &existing
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("账号写入失败: %v", err)
	}
	return u
}
