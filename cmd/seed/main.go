package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/nimbus-crew/rosterd/backend/internal/config"
	"github.com/nimbus-crew/rosterd/backend/internal/repository"
	"github.com/nimbus-crew/rosterd/backend/internal/roster"
	"github.com/nimbus-crew/rosterd/backend/internal/seed"
	"github.com/nimbus-crew/rosterd/backend/internal/utils"
	"github.com/nimbus-crew/rosterd/backend/internal/week"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机班次, 3: 插入随机岗位, 4: 为全部在职用户随机提交下周计划, 5: 插入基础数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}

		// 随机给一部分用户分配岗位
		positions, err := repo.GetAllPositions()
		if err != nil {
			slog.Error("无法获取岗位列表", slog.String("error", err.Error()))
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if len(positions) > 0 && rand.Intn(4) != 0 {
				user.PositionID = &positions[rand.Intn(len(positions))].ID
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的班次数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			shift := utils.GenerateRandomWorkShift(i % 2)
			if err := repo.CreateWorkShift(shift); err != nil {
				slog.Error("无法插入班次", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入班次成功", slog.Int("count", n-cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的岗位数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			position := utils.GenerateRandomPosition(int32(i + 1))
			if err := repo.CreatePosition(position); err != nil {
				slog.Error("无法插入岗位", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入岗位成功", slog.Int("count", n-cnt))
	case 4:
		shifts, err := repo.GetAllWorkShifts()
		if err != nil {
			slog.Error("无法获取班次列表", slog.String("error", err.Error()))
			return
		}

		policy, err := repo.GetQuotaPolicy()
		if err != nil {
			slog.Error("无法获取配额配置", slog.String("error", err.Error()))
			return
		}

		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		weekDates := week.WeekDates(week.NextWeekStart(time.Now()))

		// 每个在职用户在名义义务里随机去掉不超过配额的班次后提交
		cnt := 0
		for _, user := range users {
			if !user.IsActive {
				continue
			}

			obligations := roster.Obligations(user.ScheduleType, shifts, weekDates)
			if len(obligations) == 0 {
				continue
			}

			plan := append([]roster.Slot{}, obligations...)
			offQuota := int(policy.MaxUserOffShiftsPerWeek)
			if user.ScheduleType.IsSingleShift() {
				offQuota = int(policy.MaxUserOffDaysPerWeek)
			}
			for i := 0; i < rand.Intn(offQuota+1) && len(plan) > 0; i++ {
				j := rand.Intn(len(plan))
				plan = append(plan[:j], plan[j+1:]...)
			}

			if _, err := repo.ReplaceWeekPlan(user, weekDates, plan, policy, shifts); err != nil {
				slog.Error("无法提交周计划", slog.String("username", user.Username), slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("提交周计划成功", slog.Int("count", cnt))
	case 5:
		seed.SeedBaselineData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
