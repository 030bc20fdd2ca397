// Package reconciler 实现客户端的连接状态机
//
// Reconciler 依次尝试三种候选来源：上次保存的地址、局域网组播发现、
// 用户提交的配对码。每个候选都要通过存活探测才能进入 Connected，
// 第一个通过的候选胜出并被保存。
//
// 状态迁移：
//
//	Idle --Start--> Searching
//	Searching --有保存的地址--> Probing(persisted)
//	Searching --没有保存的地址--> Searching（启动组播发现）
//	Probing(c) --成功--> Connected(c)（保存地址）
//	Probing(c) --失败，c 为保存的地址--> Searching（启动组播发现，不清除保存）
//	Probing(c) --失败，c 来自发现或配对码--> Searching（继续等待）
//	Searching --发现候选--> Probing(候选)
//	Searching --发现超时--> Searching（提示使用配对码）
//	Connected --周期探测失败--> Searching（重新发现）
//	任意状态 --Forget--> Idle（清除保存）
//
// # 并发模型
//
// 所有输入（命令、发现候选、探测结果、定时器）由一个 run 协程通过单个
// select 处理，run 协程是状态的唯一写者。探测在独立协程中执行，同一轮次
// 最多一个探测在途；结果携带轮次号，过期结果被丢弃。
package reconciler
